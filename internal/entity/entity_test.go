package entity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bactool/internal/directive"
	"bactool/internal/record"
	"bactool/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *record.Registry {
	t.Helper()
	ctx := context.Background()
	st, err := store.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	reg := NewRegistry(st)
	require.NoError(t, st.EnsureSchema(ctx, reg.DDL()...))
	return reg
}

func TestCatalog_Parse(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	c := NewCatalog(reg)
	require.NoError(t, c.Parse(ctx, "Name = \"alpha\"\nDb Name = \"beta\""))

	again := NewCatalog(reg)
	found, err := again.SearchByName(ctx, "alpha")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, record.Str("beta"), again.Get("db_name"))
}

func TestCatalog_ParseSpellings(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	c := NewCatalog(reg)
	text := `
  dbname = bacula
  DB User = "bacula"
  dbpassword = "s3cret"
  DB   Port = 5432
  dbsocket = /run/postgresql
  DB Address = db.example.com
  Name = MyCatalog
`
	require.NoError(t, c.Parse(ctx, text))
	assert.Equal(t, "MyCatalog", c.Name())
	assert.Equal(t, record.Str("bacula"), c.Get("db_name"))
	assert.Equal(t, record.Str("bacula"), c.Get("user"))
	assert.Equal(t, record.Str("s3cret"), c.Get("password"))
	assert.Equal(t, record.Int(5432), c.Get("db_port"))
	assert.Equal(t, record.Str("/run/postgresql"), c.Get("db_socket"))
	assert.Equal(t, record.Str("db.example.com"), c.Get("db_address"))
}

func TestCatalog_MissingNameAppliesNothing(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	err := NewCatalog(reg).Parse(ctx, "Db Name = \"beta\"\nUser = bacula")
	assert.ErrorIs(t, err, directive.ErrMissingName)

	rows, err := reg.Store().FetchRowsWhere(ctx, "catalogs", "db_name", "beta")
	require.NoError(t, err)
	assert.Empty(t, rows)
	all, err := List(ctx, reg, KindCatalog)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCatalog_UnknownDirective(t *testing.T) {
	reg := newTestRegistry(t)
	err := NewCatalog(reg).Parse(context.Background(), "Name = x\nFlavour = mint")

	var pe *directive.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.ErrorIs(t, err, directive.ErrUnknownDirective)
}

func TestCatalog_ParseForAndLoadForDirector(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	d := NewDirector(reg)
	require.NoError(t, d.Parse(ctx, "Name = dir1"))
	c := NewCatalog(reg)
	require.NoError(t, c.ParseFor(ctx, "Name = MyCatalog\ndbname = bacula", d))

	dirID, _ := d.ID()
	loaded := NewCatalog(reg)
	found, err := loaded.LoadForDirector(ctx, dirID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "MyCatalog", loaded.Name())

	owner, err := loaded.Director(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dir1", owner.Name())

	found, err = NewCatalog(reg).LoadForDirector(ctx, dirID+100)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCatalog_Conf(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	c := NewCatalog(reg)
	require.NoError(t, c.Parse(ctx, "Name = MyCatalog\ndbname = bacula\nuser = bacula\nDB Port = 5432"))
	out, err := c.Render(ctx, FormConf)
	require.NoError(t, err)
	assert.Equal(t, "Catalog {\n  Name = \"MyCatalog\"\n  DB Name = \"bacula\"\n  DB Port = 5432\n  User = \"bacula\"\n}\n", out)

	_, err = c.Render(ctx, FormFD)
	assert.ErrorIs(t, err, ErrUnknownForm)
}

func TestDirector_Parse(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	d := NewDirector(reg)
	text := `
  Name = bacula-dir
  DIRport = 9111
  QueryFile = "/etc/bacula/query.sql"
  WorkingDirectory = "/var/lib/bacula"
  Maximum Concurrent Jobs = 5
  Messages = Daemon
  DirAddresses {
      ip = { addr = 10.0.0.1; port = 9101; }
      ip = { addr = 10.0.0.2; }
  }
  Password = "dirpw"
`
	require.NoError(t, d.Parse(ctx, text))
	assert.Equal(t, record.Int(9111), d.Get("dir_port"))
	assert.Equal(t, record.Int(5), d.Get("maximum_concurrent_jobs"))
	assert.Equal(t, record.Int(20), d.Get("maximum_console_connections"))
	assert.Equal(t, record.Str("ip = { addr = 10.0.0.1; port = 9101; }\nip = { addr = 10.0.0.2; }"), d.Get("dir_addresses"))

	msgs, err := d.Messages(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Daemon", msgs.Name())

	out, err := d.Render(ctx, FormConf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Director {\n  Name = \"bacula-dir\"\n  DIRport = 9111\n  QueryFile = \"/etc/bacula/query.sql\"\n"))
	assert.Contains(t, out, "  Password = \"dirpw\"\n  MaximumConcurrentJobs = 5\n  MaximumConsoleConnections = 20\n  Messages = \"Daemon\"\n")
	assert.Contains(t, out, "  DirAddresses {\n    ip = { addr = 10.0.0.1; port = 9101; }\n    ip = { addr = 10.0.0.2; }\n  }\n}\n")
}

func TestDirector_BconsoleAndAccess(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	d := NewDirector(reg)
	require.NoError(t, d.Parse(ctx, "Name = dir1\nAddress = backup.example.com\nPassword = pw"))

	out, err := d.Render(ctx, FormBconsole)
	require.NoError(t, err)
	assert.Equal(t, "Director {\n  Name = \"dir1\"\n  DIRport = 9101\n  Address = \"backup.example.com\"\n  Password = \"pw\"\n}\n", out)

	out, err = d.Access("clientpw")
	require.NoError(t, err)
	assert.Equal(t, "Director {\n  Name = \"dir1\"\n  Password = \"clientpw\"\n}\n", out)
}

func TestDirector_SetMessages(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	d := NewDirector(reg)
	require.NoError(t, d.Parse(ctx, "Name = dir1"))
	require.NoError(t, d.SetMessages(ctx, "Standard"))
	first := d.Get("messages_id")
	require.NoError(t, d.SetMessages(ctx, "Standard"))
	assert.Equal(t, first, d.Get("messages_id"))

	require.NoError(t, d.SetMessages(ctx, ""))
	assert.True(t, d.Get("messages_id").IsNull())

	out, err := d.Conf(ctx)
	require.NoError(t, err)
	assert.NotContains(t, out, "Messages")
}

func TestClient_ParseAndRender(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	c := NewClient(reg)
	text := `Name = web1-fd
Address = web1.example.com
FDPort = 9102
Catalog = MyCatalog
Password = "clientpw"
File Retention = 30 days
Job Retention = 6 months
AutoPrune = no`
	require.NoError(t, c.Parse(ctx, text))
	assert.Equal(t, record.Int(0), c.Get("auto_prune"))

	cat, err := c.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "MyCatalog", cat.Name())

	out, err := c.Render(ctx, FormConf)
	require.NoError(t, err)
	assert.Equal(t, `Client {
  Name = "web1-fd"
  Address = "web1.example.com"
  FDPort = 9102
  Catalog = "MyCatalog"
  Password = "clientpw"
  File Retention = "30 days"
  Job Retention = "6 months"
  AutoPrune = no
  Maximum Concurrent Jobs = 1
  Priority = 10
}
`, out)

	for _, name := range []string{"dir1", "dir2"} {
		require.NoError(t, NewDirector(reg).Parse(ctx, "Name = "+name))
	}
	out, err = c.Render(ctx, FormFD)
	require.NoError(t, err)
	assert.Contains(t, out, "Director {\n  Name = \"dir1\"\n  Password = \"clientpw\"\n}\n")
	assert.Contains(t, out, "Director {\n  Name = \"dir2\"\n  Password = \"clientpw\"\n}\n")
	assert.Contains(t, out, "FileDaemon {\n  Name = \"web1-fd\"\n  FDport = 9102\n  Maximum Concurrent Jobs = 1\n}")
	assert.Contains(t, out, "director = dir1 = all, !skipped, !restored")
}

func TestStorage_Render(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	d := NewDirector(reg)
	require.NoError(t, d.Parse(ctx, "Name = dir1"))

	s := NewStorageDaemon(reg)
	require.NoError(t, s.Parse(ctx, "Name = sd1\nAddress = sd1.example.com\nSD Port = 9103\nPassword = sdpw\nDevice = FileStorage\nMedia Type = File"))
	require.NoError(t, s.SetDirector(ctx, d))
	dirID, _ := d.ID()
	assert.Equal(t, record.Int(dirID), s.Get("director_id"))

	out, err := s.Render(ctx, FormConf)
	require.NoError(t, err)
	assert.Equal(t, "Storage {\n  Name = \"sd1\"\n  Address = \"sd1.example.com\"\n  SDPort = 9103\n  Password = \"sdpw\"\n  Device = \"FileStorage\"\n  Media Type = \"File\"\n  Maximum Concurrent Jobs = 1\n}\n", out)

	out, err = s.Render(ctx, FormSD)
	require.NoError(t, err)
	assert.Contains(t, out, "Storage {\n  Name = \"sd1\"\n  SDPort = 9103\n  Maximum Concurrent Jobs = 1\n}\n\nDirector {\n  Name = \"dir1\"\n  Password = \"sdpw\"\n}\n\nMessages {")
	assert.Contains(t, out, "director = dir1 = all\n")
}

func TestMessages_Parse(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	m := NewMessages(reg)
	text := `
  Name = "Standard"
  mailcommand = "/usr/sbin/bsmtp -h localhost"
  director = dir1 = all, !skipped
`
	require.NoError(t, m.Parse(ctx, text))
	assert.Equal(t, "Standard", m.Name())

	out, err := m.Render(ctx, FormConf)
	require.NoError(t, err)
	assert.Equal(t, "Messages {\n  Name = \"Standard\"\n  mailcommand = \"/usr/sbin/bsmtp -h localhost\"\n  director = dir1 = all, !skipped\n}\n", out)

	err = NewMessages(reg).Parse(ctx, "director = dir1 = all")
	assert.ErrorIs(t, err, directive.ErrMissingName)

	err = NewMessages(reg).Parse(ctx, "Name = a\nName = b\n")
	assert.ErrorIs(t, err, directive.ErrRepeatedName)
	for _, name := range []string{"a", "b"} {
		found, err := NewMessages(reg).SearchByName(ctx, name)
		require.NoError(t, err)
		assert.False(t, found, name)
	}
}

func TestFindAndCreate(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	e, err := Create(ctx, reg, KindClient, "web1-fd")
	require.NoError(t, err)
	pw := e.Base().Get("password").Text()
	assert.Len(t, pw, PasswordLength)

	again, err := Create(ctx, reg, KindClient, "web1-fd")
	require.NoError(t, err)
	assert.Equal(t, pw, again.Base().Get("password").Text())

	d, err := Create(ctx, reg, KindDirector, "dir1")
	require.NoError(t, err)
	assert.True(t, d.Base().Get("password").IsNull())

	id, _ := e.ID()
	byID, found, err := Find(ctx, reg, KindClient, "1")
	require.NoError(t, err)
	require.True(t, found)
	gotID, _ := byID.ID()
	assert.Equal(t, id, gotID)

	byName, found, err := Find(ctx, reg, KindClient, "web1-fd")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "web1-fd", byName.Name())

	_, found, err = Find(ctx, reg, KindClient, "nope")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = New(reg, "job")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword()
	require.NoError(t, err)
	b, err := GeneratePassword()
	require.NoError(t, err)

	assert.Len(t, a, PasswordLength)
	assert.NotEqual(t, a, b)
	for _, r := range a {
		assert.True(t, strings.ContainsRune(passwordAlphabet, r))
	}
}

func TestKeys(t *testing.T) {
	keys, err := Keys(KindCatalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "user", "password", "db socket", "db port", "db name", "db address"}, keys)

	_, err = Keys("job")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
