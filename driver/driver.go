// Package driver enables pagedb to be used with the go database/sql package.
package driver

// TODO
// - Question what the prepare step should do.
// - Consider context methods.

import (
	"database/sql"
	"database/sql/driver"
	"io"

	"pagedb/db"
	"pagedb/value"
)

func init() {
	sql.Register("pagedb", new())
}

func new() *pagedbDriver {
	return &pagedbDriver{}
}

type pagedbDriver struct{}

// Open implements driver.Driver. name is the data directory backing the
// engine; it is created if it does not already exist.
func (d *pagedbDriver) Open(name string) (driver.Conn, error) {
	handle, err := db.Open(name, db.DefaultBufferCapacity)
	if err != nil {
		return nil, err
	}
	return &pagedbConn{db: handle}, nil
}

type pagedbConn struct {
	db *db.DB
}

// Begin implements driver.Conn.
func (c *pagedbConn) Begin() (driver.Tx, error) {
	panic("transactions not implemented")
}

// Close implements driver.Conn.
func (c *pagedbConn) Close() error {
	return nil
}

// Prepare implements driver.Conn.
func (c *pagedbConn) Prepare(query string) (driver.Stmt, error) {
	return &pagedbStmt{db: c.db, query: query}, nil
}

type pagedbStmt struct {
	db    *db.DB
	query string
}

// Close implements driver.Stmt.
func (s *pagedbStmt) Close() error {
	return nil
}

// Exec implements driver.Stmt.
func (s *pagedbStmt) Exec(args []driver.Value) (driver.Result, error) {
	result := s.db.Execute(s.query)
	if result.Err != nil {
		return nil, result.Err
	}
	return &pagedbResult{affected: int64(result.Affected)}, nil
}

// NumInput implements driver.Stmt.
func (s *pagedbStmt) NumInput() int {
	return -1
}

// Query implements driver.Stmt.
func (s *pagedbStmt) Query(args []driver.Value) (driver.Rows, error) {
	result := s.db.Execute(s.query)
	if result.Err != nil {
		return nil, result.Err
	}
	return &pagedbRows{rows: result.Rows}, nil
}

type pagedbResult struct {
	affected int64
}

// LastInsertId implements driver.Result. pagedb has no auto-increment
// surrogate key, so this is always 0.
func (r *pagedbResult) LastInsertId() (int64, error) {
	return 0, nil
}

// RowsAffected implements driver.Result.
func (r *pagedbResult) RowsAffected() (int64, error) {
	return r.affected, nil
}

type pagedbRows struct {
	rows   [][]value.Value
	rowIdx int
}

// Close implements driver.Rows.
func (r *pagedbRows) Close() error {
	return nil
}

// Columns implements driver.Rows. pagedb's Result does not carry column
// names, only values, so this reports positional placeholders.
func (r *pagedbRows) Columns() []string {
	if len(r.rows) == 0 {
		return nil
	}
	cols := make([]string, len(r.rows[0]))
	for i := range cols {
		cols[i] = "?"
	}
	return cols
}

// Next implements driver.Rows.
func (r *pagedbRows) Next(dest []driver.Value) error {
	if r.rowIdx == len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.rowIdx]
	for i, v := range row {
		if v.IsNull() {
			dest[i] = nil
			continue
		}
		switch v.Kind {
		case value.Int:
			dest[i] = int64(v.I)
		case value.Text:
			dest[i] = v.S
		}
	}
	r.rowIdx++
	return nil
}
