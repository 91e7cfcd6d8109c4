package importer

import (
	"context"
	"testing"

	"bactool/internal/directive"
	"bactool/internal/entity"
	"bactool/internal/record"
	"bactool/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImporter(t *testing.T) (*Importer, *record.Registry) {
	t.Helper()
	ctx := context.Background()
	st, err := store.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	reg := entity.NewRegistry(st)
	require.NoError(t, st.EnsureSchema(ctx, reg.DDL()...))
	return New(reg), reg
}

const dirConf = `
# catalog appears before its director on purpose
Catalog {
  Name = MyCatalog
  dbname = "bacula"; dbuser = "bacula";
}

Director {
  Name = bacula-dir
  DIRport = 9101
  Password = "dirpw"   # console password
  Messages = Daemon
}

Job {
  Name = "BackupClient1"
}

Messages {
  Name = Daemon
  console = all, !skipped, !saved
}

Storage {
  Name = File1
  Address = sd.example.com;
  SDPort = 9103
  Password = "sdpw"
}
`

func TestImportText_SeveralDirectivesOnOneLine(t *testing.T) {
	im, _ := newTestImporter(t)

	_, err := im.ImportText(context.Background(), dirConf, Options{})
	require.Error(t, err, "two directives on one line are rejected")
	assert.ErrorIs(t, err, directive.ErrMalformedValue)
}

func TestImportText_Resources(t *testing.T) {
	im, reg := newTestImporter(t)
	ctx := context.Background()

	text := `
Catalog {
  Name = MyCatalog
  dbname = "bacula"
  dbuser = "bacula"
}

Director {
  Name = bacula-dir
  Password = "dirpw"   # console password
  Messages = Daemon
}

Job {
  Name = "BackupClient1"
}

Messages {
  Name = Daemon
  console = all, !skipped, !saved
}

Storage {
  Name = File1
  Address = sd.example.com;
  SDPort = 9103
}
`
	res, err := im.ImportText(ctx, text, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Director: bacula-dir", "Catalog: MyCatalog", "Messages: Daemon", "Storage: File1"}, res.Imported)
	assert.Equal(t, []string{"Job"}, res.Skipped)

	d, found, err := entity.Find(ctx, reg, entity.KindDirector, "bacula-dir")
	require.NoError(t, err)
	require.True(t, found)
	dirID, _ := d.ID()

	c := entity.NewCatalog(reg)
	found, err = c.LoadForDirector(ctx, dirID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "MyCatalog", c.Name())

	s, found, err := entity.Find(ctx, reg, entity.KindStorage, "File1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record.Str("sd.example.com"), s.Base().Get("address"))
	assert.Equal(t, record.Int(dirID), s.Base().Get("director_id"))

	m, found, err := entity.Find(ctx, reg, entity.KindMessages, "Daemon")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record.Str("console = all, !skipped, !saved"), m.Base().Get("data"))
}

func TestImportText_Kind(t *testing.T) {
	im, reg := newTestImporter(t)
	ctx := context.Background()

	_, err := im.ImportText(ctx, "Name = dir1", Options{Kind: entity.KindDirector})
	require.NoError(t, err)

	res, err := im.ImportText(ctx, "Name = cat1\nDB Name = bacula # main db", Options{Kind: entity.KindCatalog, Director: "dir1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Catalog: cat1"}, res.Imported)

	c, found, err := entity.Find(ctx, reg, entity.KindCatalog, "cat1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record.Str("bacula"), c.Base().Get("db_name"))
	assert.False(t, c.Base().Get("director_id").IsNull())
}

func TestImportText_Errors(t *testing.T) {
	im, _ := newTestImporter(t)
	ctx := context.Background()

	_, err := im.ImportText(ctx, "Name = cat1", Options{Kind: entity.KindCatalog, Director: "ghost"})
	assert.ErrorIs(t, err, ErrDirectorNotFound)

	_, err = im.ImportText(ctx, "Client {\n  Address = x\n}", Options{})
	var be *BlockError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Client", be.Type)
	assert.Equal(t, entity.KindClient, be.Kind)
	assert.Equal(t, 1, be.Line)
	assert.ErrorIs(t, err, directive.ErrMissingName)

	_, err = im.ImportText(ctx, "Client {\n  Name = x\n", Options{})
	assert.ErrorIs(t, err, directive.ErrUnbalancedBraces)

	_, err = im.ImportText(ctx, "Name = x", Options{Kind: "job"})
	assert.ErrorIs(t, err, entity.ErrUnknownKind)
}

func TestImportText_DirectorOptionNamesDirectorInSameText(t *testing.T) {
	im, reg := newTestImporter(t)
	ctx := context.Background()

	text := "Catalog {\n  Name = cat1\n}\nDirector {\n  Name = other-dir\n}\nDirector {\n  Name = main-dir\n}\n"
	_, err := im.ImportText(ctx, text, Options{Director: "main-dir"})
	require.NoError(t, err)

	d, found, err := entity.Find(ctx, reg, entity.KindDirector, "main-dir")
	require.NoError(t, err)
	require.True(t, found)
	mainID, _ := d.ID()

	c, found, err := entity.Find(ctx, reg, entity.KindCatalog, "cat1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record.Int(mainID), c.Base().Get("director_id"))
}

func TestImportText_DirectorOptionOnDirectorFile(t *testing.T) {
	im, reg := newTestImporter(t)
	ctx := context.Background()

	res, err := im.ImportText(ctx, "Name = main-dir", Options{Kind: entity.KindDirector, Director: "main-dir"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Director: main-dir"}, res.Imported)

	_, found, err := entity.Find(ctx, reg, entity.KindDirector, "main-dir")
	require.NoError(t, err)
	assert.True(t, found)

	// messages never need an owner
	_, err = im.ImportText(ctx, "Name = Daemon\nconsole = all", Options{Kind: entity.KindMessages, Director: "ghost"})
	assert.NoError(t, err)
}
