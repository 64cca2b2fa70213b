package database

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/oruby/ostar"
	"github.com/oruby/ostar/gem/assert"
)

func setup(t *testing.T) *ostar.Session {
	t.Helper()

	s, err := ostar.New()
	assert.NilError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.NilError(t, s.Bind("dsn", filepath.Join(t.TempDir(), "foo.db")))
	return s
}

func TestOpen(t *testing.T) {
	s := setup(t)

	err := s.Exec(`
load("database", "open")
db = open("sqlite3", dsn)
`)
	assert.NilError(t, err)

	db, err := ostar.ReadAs[*DB](s, "db")
	assert.NilError(t, err)
	assert.Expect(t, db.SQL() != nil, "db should hold sql.DB")
	assert.Expect(t, slices.Contains(ostar.Methods(ostar.OpaqueValue(db)), "close"), "db should have close method")
}

func TestSqlite(t *testing.T) {
	s := setup(t)

	err := s.Exec(`
load("database", "open")
db = open("sqlite3", dsn)

db.exec("create table foo (id integer not null primary key, name text)")
db.exec("insert into foo (id, name) values(1, 'v1')")
res = db.exec("insert into foo (id, name) values(?, ?)", 2, "v2")

rows = db.query("select id, name from foo order by id")
names = [row["name"] for row in rows]
first = db.query_row("select id, name from foo where id = ?", 2)
none = db.query_row("select id from foo where id = 42")
db.close()
`)
	assert.NilError(t, err)

	names, err := s.ReadList("names")
	assert.EqualE(t, names, err, []interface{}{"v1", "v2"})

	res, err := s.ReadMap("res")
	assert.EqualE(t, res, err, ostar.Map{"rows_affected": int64(1), "last_insert_id": int64(2)})

	first, err := s.Read("first")
	assert.NilError(t, err)
	assert.Equal(t, first.Mapping().Keys(), []ostar.Value{ostar.StringValue("id"), ostar.StringValue("name")})

	none, err := s.Read("none")
	assert.NilError(t, err)
	assert.Expect(t, none.IsNil(), "missing row should be None, got %v", none)
}

func TestQueryError(t *testing.T) {
	s := setup(t)

	err := s.Exec(`
load("database", "open")
db = open("sqlite3", dsn)
db.query("select * from missing")
`)
	assert.ErrorIs(t, err, ostar.ErrScript)
}

func TestUnsupportedParameter(t *testing.T) {
	s := setup(t)

	err := s.Exec(`
load("database", "open")
db = open("sqlite3", dsn)
db.exec("create table foo (id integer)")
db.exec("insert into foo (id) values(?)", [1, 2])
`)
	assert.ErrorIs(t, err, ostar.ErrUnsupportedConversion)
}

func TestClosedWithSession(t *testing.T) {
	s, err := ostar.New()
	assert.NilError(t, err)
	assert.NilError(t, s.Bind("dsn", filepath.Join(t.TempDir(), "bar.db")))

	assert.NilError(t, s.Exec(`
load("database", "open")
db = open("sqlite3", dsn)
`))
	db, err := ostar.ReadAs[*DB](s, "db")
	assert.NilError(t, err)

	assert.NilError(t, s.Close())
	assert.Error(t, db.SQL().Ping(), "database should be closed with session")
}
