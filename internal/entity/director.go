package entity

import (
	"context"
	"fmt"
	"strings"

	"bactool/internal/directive"
	"bactool/internal/record"
	"bactool/internal/render"
)

const (
	fieldMessagesID   = "messages_id"
	fieldDirAddresses = "dir_addresses"
)

var directorSchema = record.NewSchema(KindDirector, "directors",
	record.TextField(fieldAddress),
	record.IntField("dir_port", 9101),
	record.TextField(fieldPassword),
	record.TextField("query_file"),
	record.TextField(fieldWorkingDirectory),
	record.TextField(fieldPidDirectory),
	record.TextField("scripts_directory"),
	record.TextField(fieldHeartbeatInterval),
	record.TextField("fd_connect_timeout"),
	record.TextField("sd_connect_timeout"),
	record.TextField("source_address"),
	record.TextField("statistics_retention"),
	record.IntField(fieldMaximumConcurrentJobs, 20),
	record.IntField("maximum_console_connections", 20),
	record.RefField(fieldMessagesID, KindMessages),
	record.TextField(fieldDirAddresses),
)

var directorBindings = []binding{
	text(fieldAddress, "address"),
	integer("dir_port", "dir port"),
	text(fieldPassword, "password"),
	text("query_file", "query file"),
	text(fieldWorkingDirectory, "working directory"),
	text(fieldPidDirectory, "pid directory"),
	text("scripts_directory", "scripts directory"),
	text(fieldHeartbeatInterval, "heartbeat interval"),
	text("fd_connect_timeout", "fd connect timeout"),
	text("sd_connect_timeout", "sd connect timeout"),
	text("source_address", "source address"),
	text("statistics_retention", "statistics retention"),
	integer(fieldMaximumConcurrentJobs, "maximum concurrent jobs"),
	integer("maximum_console_connections", "maximum console connections"),
	text(fieldMessagesID, "messages"),
}

// Director is a Bacula director.
type Director struct {
	*record.Record
}

// NewDirector returns an empty director.
func NewDirector(reg *record.Registry) *Director {
	rec, _ := reg.New(KindDirector)
	return &Director{Record: rec}
}

func (d *Director) Base() *record.Record { return d.Record }

func (d *Director) Forms() []string {
	return []string{FormConf, FormBconsole}
}

// Parse reads a Director resource body. A nested DirAddresses block is kept
// verbatim, one trimmed line per entry.
func (d *Director) Parse(ctx context.Context, text string) error {
	inner, rest, found, err := directive.CutBlock(text, "DirAddresses")
	if err != nil {
		return err
	}
	if err := grammar(d.Record, directorBindings).Parse(ctx, rest); err != nil {
		return err
	}
	if !found {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(inner, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return d.SetField(ctx, fieldDirAddresses, record.Str(strings.Join(lines, "\n")))
}

// Messages returns the message set the director uses.
func (d *Director) Messages(ctx context.Context) (*Messages, error) {
	rec, err := d.Dereference(ctx, fieldMessagesID, "")
	if err != nil {
		return nil, err
	}
	return &Messages{Record: rec}, nil
}

// SetMessages points the director at the message set named name, creating
// it if needed. An empty name clears the reference.
func (d *Director) SetMessages(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return d.SetField(ctx, fieldMessagesID, record.Null())
	}
	_, err := d.Dereference(ctx, fieldMessagesID, name)
	return err
}

func (d *Director) Render(ctx context.Context, form string) (string, error) {
	switch form {
	case FormConf, "":
		return d.Conf(ctx)
	case FormBconsole:
		return d.Bconsole()
	default:
		return "", fmt.Errorf("%w: director has no %q form", ErrUnknownForm, form)
	}
}

// Conf renders the Director resource of bacula-dir.conf.
func (d *Director) Conf(ctx context.Context) (string, error) {
	data := d.Map()
	msgs, err := refName(ctx, d.Record, fieldMessagesID)
	if err != nil {
		return "", err
	}
	data["messages"] = msgs
	return render.Execute("director", data)
}

// Bconsole renders the Director resource of bconsole.conf.
func (d *Director) Bconsole() (string, error) {
	return render.Execute("director-bconsole", d.Map())
}

// Access renders a Director resource granting this director access with
// password, for inclusion in a file or storage daemon configuration.
func (d *Director) Access(password string) (string, error) {
	data := map[string]any{record.FieldName: d.Name()}
	if password != "" {
		data[fieldPassword] = password
	}
	return render.Execute("director-access", data)
}
