// Package database implements database gem over database/sql.
//
// Scripts open database with open(driver, dsn) and use its exec, query,
// query_row and close capabilities. Rows are mappings in column order.
// Databases opened by a session are closed with the session.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/oruby/ostar"
)

func init() {
	ostar.Gem("database", func(s *ostar.Session) (map[string]ostar.Value, error) {
		return map[string]ostar.Value{
			"open":    ostar.FuncValue("open", func(args ostar.Args) (ostar.Value, error) { return open(s, args) }),
			"drivers": ostar.FuncValue("drivers", drivers),
		}, nil
	})
}

// DB is database handle exposed to scripts
type DB struct {
	db     *sql.DB
	driver string
}

// Open opens database and registers it to be closed with the session
func Open(s *ostar.Session, driver, dsn string) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	d := &DB{db: db, driver: driver}
	err = s.AtExit(func() {
		if err := d.db.Close(); err != nil {
			s.Logger().Warn("database close", "session", s.Name(), "driver", driver, "error", err)
		}
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.Logger().Debug("database open", "session", s.Name(), "driver", driver)
	return d, nil
}

func open(s *ostar.Session, args ostar.Args) (ostar.Value, error) {
	driver, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}
	dsn, err := args.Text(1)
	if err != nil {
		return ostar.Nil, err
	}

	d, err := Open(s, driver, dsn)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.OpaqueValue(d), nil
}

func drivers(ostar.Args) (ostar.Value, error) {
	return ostar.ToDynamic(sql.Drivers())
}

// SQL returns underlying sql.DB
func (d *DB) SQL() *sql.DB { return d.db }

// String implements fmt.Stringer
func (d *DB) String() string { return "<database " + d.driver + ">" }

// Capabilities implements ostar.Object interface
func (d *DB) Capabilities() []ostar.Capability {
	return []ostar.Capability{
		ostar.Method("Exec", d.exec),
		ostar.Method("Query", d.query),
		ostar.Method("QueryRow", d.queryRow),
		ostar.Method("Close", d.close),
	}
}

func queryArgs(args ostar.Args) (string, []interface{}, error) {
	q, err := args.Text(0)
	if err != nil {
		return "", nil, err
	}

	params := args.Intf()[1:]
	for i, p := range params {
		if v, ok := p.(ostar.Value); ok {
			return "", nil, ostar.EUnsupported(v.Kind().String(), "sql parameter", "parameter %d", i+1)
		}
	}
	return q, params, nil
}

// exec returns mapping with rows_affected and last_insert_id
func (d *DB) exec(args ostar.Args) (ostar.Value, error) {
	q, params, err := queryArgs(args)
	if err != nil {
		return ostar.Nil, err
	}

	res, err := d.db.Exec(q, params...)
	if err != nil {
		return ostar.Nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ostar.Nil, err
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		lastID = -1
	}

	m, err := ostar.NewMapping(
		ostar.Entry{Key: ostar.StringValue("rows_affected"), Value: ostar.IntValue(affected)},
		ostar.Entry{Key: ostar.StringValue("last_insert_id"), Value: ostar.IntValue(lastID)},
	)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.MappingValue(m), nil
}

// query returns all rows as sequence of mappings
func (d *DB) query(args ostar.Args) (ostar.Value, error) {
	q, params, err := queryArgs(args)
	if err != nil {
		return ostar.Nil, err
	}

	rows, err := d.db.Query(q, params...)
	if err != nil {
		return ostar.Nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return ostar.Nil, err
	}

	var result []ostar.Value
	for rows.Next() {
		row, err := scanRow(rows, cols)
		if err != nil {
			return ostar.Nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return ostar.Nil, err
	}
	return ostar.SequenceValue(result...), nil
}

// queryRow returns first row, or None when there are no rows
func (d *DB) queryRow(args ostar.Args) (ostar.Value, error) {
	rows, err := d.query(args)
	if err != nil {
		return ostar.Nil, err
	}
	return rows.Index(0), nil
}

func (d *DB) close(ostar.Args) (ostar.Value, error) {
	return ostar.Nil, d.db.Close()
}

func scanRow(rows *sql.Rows, cols []string) (ostar.Value, error) {
	dst := make([]interface{}, len(cols))
	for i := range dst {
		var x interface{}
		dst[i] = &x
	}

	if err := rows.Scan(dst...); err != nil {
		return ostar.Nil, err
	}

	entries := make([]ostar.Entry, len(cols))
	for i, col := range cols {
		field, err := columnValue(*(dst[i]).(*interface{}))
		if err != nil {
			return ostar.Nil, err
		}
		entries[i] = ostar.Entry{Key: ostar.StringValue(col), Value: field}
	}

	m, err := ostar.NewMapping(entries...)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.MappingValue(m), nil
}

func columnValue(x interface{}) (ostar.Value, error) {
	switch v := x.(type) {
	case []byte:
		return ostar.StringValue(string(v)), nil
	case time.Time:
		return ostar.StringValue(v.Format(time.RFC3339Nano)), nil
	case nil, int64, float64, string, bool:
		return ostar.ToDynamic(v)
	}
	return ostar.Nil, fmt.Errorf("%w: column value %T", ostar.ErrUnsupportedConversion, x)
}
