package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bactool/pkg/logging"
)

// Header starts every generated file written with a header.
const Header = "# This config file generated by bactool.\n#\n# DO NOT EDIT THIS FILE BY HAND\n\n"

// WriteIfChanged writes content to path.new and moves it over path only when
// it differs from what path already holds. Missing parent directories are
// created. It reports whether path changed.
func WriteIfChanged(path, content string, header bool) (bool, error) {
	var buf bytes.Buffer
	if header {
		buf.WriteString(Header)
	}
	buf.WriteString(content)
	if content != "" && content[len(content)-1] != '\n' {
		buf.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, fmt.Errorf("create directory for %s: %w", path, err)
	}

	tmp := path + ".new"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o640); err != nil {
		return false, fmt.Errorf("write %s: %w", tmp, err)
	}

	old, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(old, buf.Bytes()):
		if err := os.Remove(tmp); err != nil {
			return false, fmt.Errorf("remove %s: %w", tmp, err)
		}
		logging.Debug("Render", "%s does not need to be updated", path)
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		os.Remove(tmp)
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("replace %s: %w", path, err)
	}
	logging.Info("Render", "Updated %s", path)
	return true, nil
}
