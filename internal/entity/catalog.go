package entity

import (
	"context"
	"fmt"

	"bactool/internal/record"
	"bactool/internal/render"
)

var catalogSchema = record.NewSchema(KindCatalog, "catalogs",
	record.TextField("db_address"),
	record.TextField("db_name"),
	record.NullIntField("db_port"),
	record.TextField("db_socket"),
	record.TextField(fieldPassword),
	record.TextField("user"),
	record.RefField(fieldDirectorID, KindDirector),
)

var catalogBindings = []binding{
	text("user", "user", "db user"),
	text(fieldPassword, "password", "db password"),
	text("db_socket", "db socket"),
	integer("db_port", "db port"),
	text("db_name", "db name"),
	text("db_address", "db address"),
}

// Catalog is the database a director keeps its job records in.
type Catalog struct {
	*record.Record
}

// NewCatalog returns an empty catalog.
func NewCatalog(reg *record.Registry) *Catalog {
	rec, _ := reg.New(KindCatalog)
	return &Catalog{Record: rec}
}

func (c *Catalog) Base() *record.Record { return c.Record }

func (c *Catalog) Forms() []string { return []string{FormConf} }

// Parse reads a Catalog resource body.
func (c *Catalog) Parse(ctx context.Context, text string) error {
	return grammar(c.Record, catalogBindings).Parse(ctx, text)
}

// ParseFor reads a Catalog resource body and attaches the catalog to d.
func (c *Catalog) ParseFor(ctx context.Context, text string, d *Director) error {
	if err := c.Parse(ctx, text); err != nil {
		return err
	}
	return setDirector(ctx, c.Record, d)
}

// SetDirector attaches the catalog to d.
func (c *Catalog) SetDirector(ctx context.Context, d *Director) error {
	return setDirector(ctx, c.Record, d)
}

// Director returns the director the catalog belongs to.
func (c *Catalog) Director(ctx context.Context) (*Director, error) {
	rec, err := c.Dereference(ctx, fieldDirectorID, "")
	if err != nil {
		return nil, err
	}
	return &Director{Record: rec}, nil
}

// LoadForDirector loads the first catalog attached to the director with the
// given identity. It reports whether one exists.
func (c *Catalog) LoadForDirector(ctx context.Context, directorID int64) (bool, error) {
	rows, err := c.Store().FetchRowsWhere(ctx, catalogSchema.Table, fieldDirectorID, directorID)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	return true, c.Hydrate(rows[0])
}

func (c *Catalog) Render(ctx context.Context, form string) (string, error) {
	if form != FormConf && form != "" {
		return "", fmt.Errorf("%w: catalog has no %q form", ErrUnknownForm, form)
	}
	return c.Conf()
}

// Conf renders the Catalog resource of bacula-dir.conf.
func (c *Catalog) Conf() (string, error) {
	return render.Execute("catalog", c.Map())
}
