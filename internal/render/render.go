// Package render turns entity fields into daemon configuration text.
//
// Templates live in templates/*.tmpl and are executed with text/template,
// the sprig function set and a few helpers for Bacula directive syntax.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Indent prefixes every directive line inside a resource.
const Indent = "  "

var (
	loadOnce sync.Once
	tmpl     *template.Template
	loadErr  error
)

func templates() (*template.Template, error) {
	loadOnce.Do(func() {
		funcs := sprig.TxtFuncMap()
		funcs["phrase"] = Phrase
		funcs["yesno"] = YesNo
		funcs["bquote"] = Quote
		tmpl, loadErr = template.New("render").
			Option("missingkey=zero").
			Funcs(funcs).
			ParseFS(templateFS, "templates/*.tmpl")
	})
	return tmpl, loadErr
}

// Execute runs the named template (file name without ".tmpl") with data.
func Execute(name string, data any) (string, error) {
	t, err := templates()
	if err != nil {
		return "", fmt.Errorf("load templates: %w", err)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Names lists the available templates.
func Names() []string {
	t, err := templates()
	if err != nil {
		return nil
	}
	var names []string
	for _, tt := range t.Templates() {
		if n, ok := strings.CutSuffix(tt.Name(), ".tmpl"); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Phrase renders one directive line preceded by a newline, or nothing when
// the value is null. Integers and numeric strings are written bare, other
// strings quoted.
func Phrase(key string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case int64:
		return fmt.Sprintf("\n%s%s = %d", Indent, key, v)
	case int:
		return fmt.Sprintf("\n%s%s = %d", Indent, key, v)
	case string:
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			return fmt.Sprintf("\n%s%s = %s", Indent, key, v)
		}
		return fmt.Sprintf("\n%s%s = %s", Indent, key, Quote(v))
	default:
		return fmt.Sprintf("\n%s%s = %s", Indent, key, Quote(fmt.Sprint(v)))
	}
}

// YesNo renders a stored boolean. Null, 0, "0" and "" read as no.
func YesNo(value any) string {
	switch v := value.(type) {
	case nil:
		return "no"
	case int64:
		if v == 0 {
			return "no"
		}
	case int:
		if v == 0 {
			return "no"
		}
	case string:
		if v == "" || v == "0" {
			return "no"
		}
	}
	return "yes"
}

// Quote double-quotes s, escaping embedded quotes and backslashes.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
