package entity

import (
	"context"
	"fmt"

	"bactool/internal/record"
	"bactool/internal/render"
)

const fieldCatalogID = "catalog_id"

var clientSchema = record.NewSchema(KindClient, "clients",
	record.TextField(fieldAddress),
	record.IntField("fd_port", 9102),
	record.TextField(fieldPassword),
	record.RefField(fieldCatalogID, KindCatalog),
	record.TextField("file_retention"),
	record.TextField("job_retention"),
	record.BoolField("auto_prune", true),
	record.IntField(fieldMaximumConcurrentJobs, 1),
	record.IntField("priority", 10),
	record.TextField(fieldWorkingDirectory),
	record.TextField(fieldPidDirectory),
	record.TextField(fieldHeartbeatInterval),
)

var clientBindings = []binding{
	text(fieldAddress, "address"),
	integer("fd_port", "fd port"),
	text(fieldPassword, "password"),
	text(fieldCatalogID, "catalog"),
	text("file_retention", "file retention"),
	text("job_retention", "job retention"),
	text("auto_prune", "auto prune"),
	integer(fieldMaximumConcurrentJobs, "maximum concurrent jobs"),
	integer("priority", "priority"),
	text(fieldWorkingDirectory, "working directory"),
	text(fieldPidDirectory, "pid directory"),
	text(fieldHeartbeatInterval, "heartbeat interval"),
}

// Client is a host running a Bacula file daemon.
type Client struct {
	*record.Record
}

// NewClient returns an empty client.
func NewClient(reg *record.Registry) *Client {
	rec, _ := reg.New(KindClient)
	return &Client{Record: rec}
}

func (c *Client) Base() *record.Record { return c.Record }

func (c *Client) Forms() []string { return []string{FormConf, FormFD} }

// Parse reads a Client resource body.
func (c *Client) Parse(ctx context.Context, text string) error {
	return grammar(c.Record, clientBindings).Parse(ctx, text)
}

// Catalog returns the catalog the client's jobs are recorded in.
func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	rec, err := c.Dereference(ctx, fieldCatalogID, "")
	if err != nil {
		return nil, err
	}
	return &Catalog{Record: rec}, nil
}

// Render produces the Client resource for the director (conf) or the
// client's own bacula-fd.conf (fd), the latter granting every stored
// director access.
func (c *Client) Render(ctx context.Context, form string) (string, error) {
	switch form {
	case FormConf, "":
		return c.Conf(ctx)
	case FormFD:
		directors, err := allDirectors(ctx, c.Record)
		if err != nil {
			return "", err
		}
		return c.FileDaemonConf(directors)
	default:
		return "", fmt.Errorf("%w: client has no %q form", ErrUnknownForm, form)
	}
}

// Conf renders the Client resource of bacula-dir.conf.
func (c *Client) Conf(ctx context.Context) (string, error) {
	data := c.Map()
	catalog, err := refName(ctx, c.Record, fieldCatalogID)
	if err != nil {
		return "", err
	}
	data["catalog"] = catalog
	return render.Execute("client", data)
}

// FileDaemonConf renders bacula-fd.conf for the client. Every director in
// directors may connect with the client's password; the first one receives
// the daemon's messages.
func (c *Client) FileDaemonConf(directors []*Director) (string, error) {
	data := c.Map()
	data["directors"] = directorAccess(directors, data[fieldPassword])
	return render.Execute("client-fd", data)
}

// allDirectors loads every director stored next to rec.
func allDirectors(ctx context.Context, rec *record.Record) ([]*Director, error) {
	recs, err := rec.Registry().All(ctx, KindDirector)
	if err != nil {
		return nil, err
	}
	out := make([]*Director, len(recs))
	for i, r := range recs {
		out[i] = &Director{Record: r}
	}
	return out, nil
}
