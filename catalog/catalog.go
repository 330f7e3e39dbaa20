// Package catalog holds the persistent table-name to Schema map. It is
// rewritten in full on every mutation, mirroring a teaching engine's
// simplest possible durability story rather than a WAL or page-backed
// system catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ColumnType is one of the two column types this engine supports.
type ColumnType string

const (
	ColInt     ColumnType = "INT"
	ColVarchar ColumnType = "VARCHAR"
)

// Column is a single column definition. Length is meaningful only for
// VARCHAR; it is ignored for INT, and a zero Length is left out of
// catalog.json.
type Column struct {
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Length uint32     `json:"length,omitempty"`
}

// TypeSize returns the fixed on-disk width, in bytes, of a value of this
// column's type.
func (c Column) TypeSize() int {
	if c.Type == ColVarchar {
		return int(c.Length)
	}
	return 4
}

// Schema is the ordered column list and optional primary key of a table.
// Column names within a schema are expected to be unique; Catalog itself
// does not check this, it is enforced upstream by semantic analysis before
// CreateTable is ever called.
type Schema struct {
	TableName  string   `json:"-"`
	Columns    []Column `json:"columns"`
	PrimaryKey string   `json:"primary_key,omitempty"`
}

// ColumnIndex returns the ordinal position of name within the schema, or -1
// if no such column exists.
func (s *Schema) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnByName returns the column definition named name, or false if no
// such column exists.
func (s *Schema) ColumnByName(name string) (Column, bool) {
	i := s.ColumnIndex(name)
	if i == -1 {
		return Column{}, false
	}
	return s.Columns[i], true
}

// RecordSize returns the fixed width, in bytes, of one row of this schema:
// the sum of each column's TypeSize.
func (s *Schema) RecordSize() int {
	size := 0
	for _, c := range s.Columns {
		size += c.TypeSize()
	}
	return size
}

// ErrTableExists is returned by CreateTable when the table is already
// present in the catalog.
var ErrTableExists = fmt.Errorf("catalog: table already exists")

// Catalog maps table names to schemas and is persisted in full to
// <data_dir>/catalog.json on every mutation.
type Catalog struct {
	dataDir string
	schemas map[string]*Schema
}

// Load reads <data_dir>/catalog.json. A missing file yields an empty
// catalog. A file that fails to parse is silently discarded in favor of an
// empty catalog, matching the source system this engine was ported from
// rather than surfacing a corruption error (see the module's design notes).
func Load(dataDir string) (*Catalog, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("catalog: create data dir: %w", err)
	}
	c := &Catalog{dataDir: dataDir, schemas: map[string]*Schema{}}

	raw, err := os.ReadFile(c.path())
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("catalog: read catalog: %w", err)
	}

	var onDisk map[string]struct {
		Columns    []Column `json:"columns"`
		PrimaryKey string   `json:"primary_key,omitempty"`
	}
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		c.schemas = map[string]*Schema{}
		return c, nil
	}
	for name, s := range onDisk {
		c.schemas[name] = &Schema{TableName: name, Columns: s.Columns, PrimaryKey: s.PrimaryKey}
	}
	return c, nil
}

func (c *Catalog) path() string {
	return filepath.Join(c.dataDir, "catalog.json")
}

// save rewrites catalog.json in full. Not crash-atomic: the file is opened
// for truncation then written, rather than written to a temp file and
// renamed in.
func (c *Catalog) save() error {
	onDisk := make(map[string]*Schema, len(c.schemas))
	for name, s := range c.schemas {
		onDisk[name] = s
	}
	buf, err := json.MarshalIndent(onDisk, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: marshal: %w", err)
	}
	if err := os.WriteFile(c.path(), buf, 0o644); err != nil {
		return fmt.Errorf("catalog: write: %w", err)
	}
	return nil
}

// CreateTable installs a new schema and persists the catalog. It returns
// ErrTableExists if name is already present.
func (c *Catalog) CreateTable(name string, columns []Column, primaryKey string) (*Schema, error) {
	if _, ok := c.schemas[name]; ok {
		return nil, ErrTableExists
	}
	s := &Schema{TableName: name, Columns: columns, PrimaryKey: primaryKey}
	c.schemas[name] = s
	if err := c.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// GetSchema returns the schema for name, or false if the table does not
// exist.
func (c *Catalog) GetSchema(name string) (*Schema, bool) {
	s, ok := c.schemas[name]
	return s, ok
}

// TableExists reports whether name is a known table.
func (c *Catalog) TableExists(name string) bool {
	_, ok := c.schemas[name]
	return ok
}

// Drop removes name from the catalog and persists the change. It reports
// whether an entry was actually removed.
func (c *Catalog) Drop(name string) (bool, error) {
	if _, ok := c.schemas[name]; !ok {
		return false, nil
	}
	delete(c.schemas, name)
	if err := c.save(); err != nil {
		return false, err
	}
	return true, nil
}
