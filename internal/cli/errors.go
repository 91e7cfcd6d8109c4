package cli

import (
	"errors"
	"fmt"
	"io"

	"bactool/internal/config"
)

// NotFoundError is returned when a command names a record that does not exist.
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Ref)
}

// ReportError writes err to w, with full detail for configuration errors.
func ReportError(w io.Writer, err error) {
	var cec *config.ConfigurationErrorCollection
	if errors.As(err, &cec) {
		fmt.Fprintln(w, cec.GetDetailedReport())
		return
	}
	var ce config.ConfigurationError
	if errors.As(err, &ce) {
		fmt.Fprintln(w, ce.DetailedError())
		return
	}
	fmt.Fprintln(w, FormatError(err))
}
