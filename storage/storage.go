// Package storage is the record-level facade the executor drives: it
// combines the buffer pool and file manager with per-column
// serialization, presenting create/drop/insert/scan operations over rows
// of value.Value rather than raw pages.
package storage

import (
	"fmt"

	"pagedb/buffer"
	"pagedb/catalog"
	"pagedb/pager"
	"pagedb/value"
)

// fileManager is the subset of *pager.FileManager the engine depends on
// directly (outside of what the buffer pool already wraps).
type fileManager interface {
	CreateFile(table string) (bool, error)
	DeleteFile(table string) (bool, error)
	GetPageCount(table string) (int, error)
}

// bufferPool is the subset of *buffer.Pool the engine depends on.
type bufferPool interface {
	PinPage(table string, pageID int) (*pager.Page, error)
	UnpinPage(table string, pageID int, isDirty bool) error
	AllocatePage(table string) (*pager.Page, error)
	PurgeTable(table string) error
}

// Engine is the storage facade: file manager + buffer pool + record
// (de)serialization.
type Engine struct {
	fm   fileManager
	pool bufferPool
}

// New returns an Engine driving fm through pool.
func New(fm *pager.FileManager, pool *buffer.Pool) *Engine {
	return &Engine{fm: fm, pool: pool}
}

// CreateTable creates table's backing file. schema is accepted for
// signature symmetry with the rest of the pipeline but is not otherwise
// consulted here; the file format carries no schema information of its
// own.
func (e *Engine) CreateTable(table string, schema *catalog.Schema) (bool, error) {
	return e.fm.CreateFile(table)
}

// DropTable purges table's resident pages from the buffer pool (flushing
// dirty ones first) and then removes its backing file.
func (e *Engine) DropTable(table string) (bool, error) {
	if err := e.pool.PurgeTable(table); err != nil {
		return false, fmt.Errorf("storage: drop table: %w", err)
	}
	return e.fm.DeleteFile(table)
}

// InsertRecord serializes values against schema and appends the record to
// the first page with room, allocating a new page if none has space. It
// returns the encoded (page_id, record_id) record identifier, or an error
// if no page could hold the record.
func (e *Engine) InsertRecord(table string, schema *catalog.Schema, values []value.Value) (int32, error) {
	record := serializeRecord(schema, values)

	pageCount, err := e.fm.GetPageCount(table)
	if err != nil {
		return 0, fmt.Errorf("storage: insert record: %w", err)
	}
	for pageID := 0; pageID < pageCount; pageID++ {
		pg, err := e.pool.PinPage(table, pageID)
		if err != nil {
			return 0, fmt.Errorf("storage: insert record: %w", err)
		}
		if pg == nil {
			continue
		}
		if pg.HasFreeSpace(len(record)) {
			rid := pg.InsertRecord(record)
			if uerr := e.pool.UnpinPage(table, pageID, true); uerr != nil {
				return 0, fmt.Errorf("storage: insert record: %w", uerr)
			}
			if rid == -1 {
				return 0, fmt.Errorf("storage: insert record: page %d reported free space but rejected the insert", pageID)
			}
			return pager.EncodeRID(pageID, rid), nil
		}
		if err := e.pool.UnpinPage(table, pageID, false); err != nil {
			return 0, fmt.Errorf("storage: insert record: %w", err)
		}
	}

	newPage, err := e.pool.AllocatePage(table)
	if err != nil {
		return 0, fmt.Errorf("storage: insert record: %w", err)
	}
	if newPage == nil {
		return 0, fmt.Errorf("storage: insert record: could not allocate a page for table %q", table)
	}
	rid := newPage.InsertRecord(record)
	if uerr := e.pool.UnpinPage(table, newPage.ID(), true); uerr != nil {
		return 0, fmt.Errorf("storage: insert record: %w", uerr)
	}
	if rid == -1 {
		return 0, fmt.Errorf("storage: insert record: freshly allocated page %d has no room for one record", newPage.ID())
	}
	return pager.EncodeRID(newPage.ID(), rid), nil
}

// ScanRecords returns every row in table, in page-then-record order,
// decoded according to schema.
func (e *Engine) ScanRecords(table string, schema *catalog.Schema) ([][]value.Value, error) {
	pageCount, err := e.fm.GetPageCount(table)
	if err != nil {
		return nil, fmt.Errorf("storage: scan records: %w", err)
	}
	recordSize := schema.RecordSize()

	var rows [][]value.Value
	for pageID := 0; pageID < pageCount; pageID++ {
		pg, err := e.pool.PinPage(table, pageID)
		if err != nil {
			return nil, fmt.Errorf("storage: scan records: %w", err)
		}
		if pg == nil {
			continue
		}
		for recordID := 0; recordID < pg.NumRecords(); recordID++ {
			raw := pg.GetRecord(recordID, recordSize)
			if raw == nil {
				continue
			}
			rows = append(rows, deserializeRecord(schema, raw))
		}
		if err := e.pool.UnpinPage(table, pageID, false); err != nil {
			return nil, fmt.Errorf("storage: scan records: %w", err)
		}
	}
	return rows, nil
}

// serializeRecord packs values into the fixed-width record_size byte
// sequence implied by schema. A NULL value, or an error serializing an
// INT, zero-fills the column's slot.
func serializeRecord(schema *catalog.Schema, values []value.Value) []byte {
	record := make([]byte, schema.RecordSize())
	offset := 0
	for i, col := range schema.Columns {
		size := col.TypeSize()
		if i < len(values) {
			writeColumn(record[offset:offset+size], col, values[i])
		}
		offset += size
	}
	return record
}

func writeColumn(dst []byte, col catalog.Column, v value.Value) {
	if v.IsNull() {
		return // dst is already zero-filled
	}
	switch col.Type {
	case catalog.ColInt:
		if v.Kind != value.Int {
			return
		}
		putInt32BE(dst, v.I)
	case catalog.ColVarchar:
		if v.Kind != value.Text {
			return
		}
		b := []byte(v.S)
		if len(b) > len(dst) {
			b = b[:len(dst)]
		}
		copy(dst, b)
	}
}

func putInt32BE(dst []byte, v int32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}

func readInt32BE(src []byte) int32 {
	return int32(src[0])<<24 | int32(src[1])<<16 | int32(src[2])<<8 | int32(src[3])
}

// deserializeRecord unpacks a fixed-width record into a row of value.Value,
// one per schema column. A column whose bytes are entirely zero decodes as
// NULL, which makes the integer 0 and the empty string indistinguishable
// from an absent value (see the module's design notes).
func deserializeRecord(schema *catalog.Schema, record []byte) []value.Value {
	row := make([]value.Value, len(schema.Columns))
	offset := 0
	for i, col := range schema.Columns {
		size := col.TypeSize()
		if offset+size > len(record) {
			row[i] = value.NewNull()
			offset += size
			continue
		}
		chunk := record[offset : offset+size]
		row[i] = decodeColumn(col, chunk)
		offset += size
	}
	return row
}

func decodeColumn(col catalog.Column, chunk []byte) value.Value {
	if isAllZero(chunk) {
		return value.NewNull()
	}
	switch col.Type {
	case catalog.ColInt:
		return value.NewInt(readInt32BE(chunk))
	case catalog.ColVarchar:
		return value.NewText(string(trimTrailingZero(chunk)))
	default:
		return value.NewNull()
	}
}

func isAllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func trimTrailingZero(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
