package entity

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bactool/internal/directive"
	"bactool/internal/record"
	"bactool/internal/render"
)

const fieldData = "data"

var messagesSchema = record.NewSchema(KindMessages, "messages",
	record.TextField(fieldData),
)

// Messages is a named message routing set. Only its name is parsed; the
// rest of the resource is kept as an opaque body.
type Messages struct {
	*record.Record
}

// NewMessages returns an empty message set.
func NewMessages(reg *record.Registry) *Messages {
	rec, _ := reg.New(KindMessages)
	return &Messages{Record: rec}
}

func (m *Messages) Base() *record.Record { return m.Record }

func (m *Messages) Forms() []string { return []string{FormConf} }

// Parse reads a Messages resource body.
func (m *Messages) Parse(ctx context.Context, text string) error {
	var (
		name     string
		named    bool
		nameLine int
		body     []string
	)
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if ok && strings.EqualFold(strings.TrimSpace(key), record.FieldName) {
			if named {
				return &directive.ParseError{Line: i + 1, Text: line, Key: key, Reason: "the name is already set on line " + strconv.Itoa(nameLine), Err: directive.ErrRepeatedName}
			}
			v, err := directive.ReadValue(value)
			if err != nil {
				return &directive.ParseError{Line: i + 1, Text: line, Key: key, Reason: err.Error(), Err: directive.ErrMalformedValue}
			}
			name, named, nameLine = v, true, i+1
			continue
		}
		body = append(body, line)
	}
	if !named {
		return &directive.ParseError{Err: directive.ErrMissingName, Reason: `"Name" must be set`}
	}

	if err := m.EnsureByName(ctx, name); err != nil {
		return err
	}
	return m.SetField(ctx, fieldData, record.Str(strings.Join(body, "\n  ")))
}

func (m *Messages) Render(ctx context.Context, form string) (string, error) {
	if form != FormConf && form != "" {
		return "", fmt.Errorf("%w: messages has no %q form", ErrUnknownForm, form)
	}
	return m.Conf()
}

// Conf renders the Messages resource.
func (m *Messages) Conf() (string, error) {
	return render.Execute("messages", m.Map())
}
