package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bactool/internal/cli"
	"bactool/internal/config"
	"bactool/internal/daemon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env runs commands against one temporary configuration and database.
type env struct {
	t   *testing.T
	dir string
}

func newEnv(t *testing.T) *env {
	return &env{t: t, dir: t.TempDir()}
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--config-path", e.dir,
		"--db-dsn", filepath.Join(e.dir, "bactool.db"),
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "bactool %s", strings.Join(args, " "))
	return out
}

func (e *env) write(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func (e *env) getJSON(kind, ref string) map[string]any {
	e.t.Helper()
	out := e.mustRun("get", kind, ref, "-o", "json")
	var m map[string]any
	require.NoError(e.t, json.Unmarshal([]byte(out), &m))
	return m
}

const dirConf = `
Director {
  Name = main-dir
  Password = "dirpw"
  Messages = Daemon
}

Catalog {
  Name = MyCatalog
  dbname = "bacula"
  dbuser = "bacula"
}

Messages {
  Name = Daemon
  console = all, !skipped
}

Pool {
  Name = Default
}
`

func TestImportAndGet(t *testing.T) {
	e := newEnv(t)
	path := e.write("bacula-dir.conf", dirConf)

	out := e.mustRun("import", path)
	assert.Contains(t, out, "✓ Imported Director: main-dir")
	assert.Contains(t, out, "✓ Imported Catalog: MyCatalog")
	assert.Contains(t, out, "⚠ Skipped Pool resource")

	d := e.getJSON("director", "main-dir")
	assert.Equal(t, "dirpw", d["password"])
	assert.EqualValues(t, 9101, d["dir_port"])
	assert.NotNil(t, d["messages_id"])

	c := e.getJSON("catalog", "MyCatalog")
	assert.Equal(t, "bacula", c["db_name"])
	assert.Equal(t, d["id"], c["director_id"])

	_, err := e.run("get", "director", "ghost")
	var nf *cli.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ghost", nf.Ref)
}

func TestImport_ParseErrorPointsAtFileLine(t *testing.T) {
	e := newEnv(t)
	path := e.write("bad.conf", "Client {\n  Name = fd1\n  Colour = blue\n}\n")

	_, err := e.run("import", "-q", path)
	var ce config.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 3, ce.LineNumber)
	assert.Equal(t, path, ce.FilePath)
	require.NotEmpty(t, ce.Suggestions)
	assert.Contains(t, ce.Suggestions[0], "address")
	assert.Equal(t, ExitCodeConfig, getExitCode(err))
}

func TestImport_Stdin(t *testing.T) {
	e := newEnv(t)
	root := newRootCmd()
	root.SetIn(strings.NewReader("Name = fd1\nAddress = 10.0.0.5"))
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config-path", e.dir, "--db-dsn", filepath.Join(e.dir, "bactool.db"),
		"import", "--kind", "client", "-"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "10.0.0.5", e.getJSON("client", "fd1")["address"])
}

func TestCreateSetRenameDelete(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun("create", "client", "web1-fd", "--set", "address=web1.example.com", "--set", "catalog=MyCatalog")
	assert.Contains(t, out, `client "web1-fd"`)

	c := e.getJSON("client", "web1-fd")
	assert.Equal(t, "web1.example.com", c["address"])
	assert.Len(t, c["password"], 44)
	assert.NotNil(t, c["catalog_id"])
	assert.Equal(t, "MyCatalog", e.getJSON("catalog", "MyCatalog")["name"])

	e.mustRun("set", "client", "web1-fd", "auto_prune", "no")
	e.mustRun("set", "client", "web1-fd", "fd_port", "9200")
	e.mustRun("set", "client", "web1-fd", "address", "--null")
	c = e.getJSON("client", "web1-fd")
	assert.EqualValues(t, 0, c["auto_prune"])
	assert.EqualValues(t, 9200, c["fd_port"])
	assert.Nil(t, c["address"])

	_, err := e.run("set", "client", "web1-fd", "fd_port", "lots")
	assert.Error(t, err)
	_, err = e.run("set", "client", "web1-fd", "colour", "blue")
	assert.Error(t, err)
	_, err = e.run("create", "client", "x", "--set", "novalue")
	assert.Error(t, err)

	e.mustRun("rename", "client", "web1-fd", "web2-fd")
	assert.Equal(t, "web2-fd", e.getJSON("client", "web2-fd")["name"])

	e.mustRun("delete", "client", "web2-fd")
	_, err = e.run("get", "client", "web2-fd")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	e := newEnv(t)
	e.mustRun("create", "storage", "File1")
	e.mustRun("create", "storage", "File2")

	out := e.mustRun("list", "storage", "-o", "json")
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "File1", rows[0]["name"])
	assert.EqualValues(t, 9103, rows[1]["sd_port"])

	out = e.mustRun("list", "director")
	assert.Contains(t, out, "No director found")

	_, err := e.run("list", "job")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	e := newEnv(t)
	e.mustRun("import", e.write("dir.conf", dirConf))

	out := e.mustRun("render", "catalog", "MyCatalog")
	assert.Equal(t, "Catalog {\n  Name = \"MyCatalog\"\n  DB Name = \"bacula\"\n  User = \"bacula\"\n}\n", out)

	out = e.mustRun("render", "director", "main-dir", "--as", "bconsole")
	assert.Contains(t, out, "DIRport = 9101")

	_, err := e.run("render", "catalog", "MyCatalog", "--as", "fd")
	assert.Error(t, err)
}

type recordingReloader struct{ units []string }

func (r *recordingReloader) ReloadUnit(_ context.Context, unit string) error {
	r.units = append(r.units, unit)
	return nil
}

func TestWrite(t *testing.T) {
	e := newEnv(t)
	rec := &recordingReloader{}
	original := newReloader
	newReloader = func() daemon.Reloader { return rec }
	defer func() { newReloader = original }()

	e.mustRun("import", e.write("dir.conf", dirConf))
	target := filepath.Join(e.dir, "out", "catalog.conf")

	out := e.mustRun("write", "catalog", "MyCatalog", "--file", target, "--reload")
	assert.Contains(t, out, "Wrote "+target)
	assert.Contains(t, out, "Reloaded bacula-dir.service")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# This config file generated by bactool."))
	assert.Contains(t, string(data), `Name = "MyCatalog"`)

	out = e.mustRun("write", "catalog", "MyCatalog", "--file", target, "--reload")
	assert.Contains(t, out, "unchanged")
	assert.Equal(t, []string{"bacula-dir.service"}, rec.units)
}

func TestDefaultFileNameAndUnit(t *testing.T) {
	assert.Equal(t, "bacula-fd.conf", defaultFileName("client", "fd", "web1"))
	assert.Equal(t, "bconsole.conf", defaultFileName("director", "bconsole", "d"))
	assert.Equal(t, filepath.Join("bacula-dir.d", "client-web1.conf"), defaultFileName("client", "conf", "web1"))

	r := config.ReloadConfig{Director: "dir.service", Client: "fd.service", Storage: "sd.service"}
	assert.Equal(t, "fd.service", reloadUnit(r, "client", "fd"))
	assert.Equal(t, "dir.service", reloadUnit(r, "client", "conf"))
	assert.Equal(t, "sd.service", reloadUnit(r, "storage", "sd"))
	assert.Equal(t, "", reloadUnit(r, "director", "bconsole"))
}

func TestWatchOnce(t *testing.T) {
	e := newEnv(t)
	res := filepath.Join(e.dir, "resources")
	e.write("resources/directors/main.conf", "Name = main-dir\nPassword = \"pw\"")
	e.write("resources/catalogs/cat.conf", "Name = MyCatalog\nDB Name = bacula")

	out := e.mustRun("watch", res, "--once", "--director", "main-dir")
	assert.Contains(t, out, "Imported Director: main-dir")
	assert.Contains(t, out, "Imported Catalog: MyCatalog")

	c := e.getJSON("catalog", "MyCatalog")
	assert.Equal(t, e.getJSON("director", "main-dir")["id"], c["director_id"])
}
