package pager

import (
	"encoding/binary"
	"fmt"
)

// headerFields is the byte width of the num_records/free_space_start
// header at the front of every page.
const headerFields = 8

// Page is an in-memory image of a single fixed-size page: an 8-byte header
// followed by a contiguous run of fixed-width records. There is no slot
// directory; a record's identity is its ordinal position in the page.
type Page struct {
	id      int
	content []byte

	numRecords      int32
	freeSpaceStart  int32
	dirty           bool
}

// New allocates a zeroed page and writes the initial header (0, 8).
func New(pageID int) *Page {
	p := &Page{
		id:             pageID,
		content:        make([]byte, PAGE_SIZE),
		numRecords:     0,
		freeSpaceStart: headerFields,
	}
	p.writeHeader()
	return p
}

// FromBytes parses a header from buf, which must be exactly PAGE_SIZE bytes,
// and returns a Page wrapping a copy of it.
func FromBytes(pageID int, buf []byte) (*Page, error) {
	if len(buf) != PAGE_SIZE {
		return nil, fmt.Errorf("pager: invalid page data size %d", len(buf))
	}
	content := make([]byte, PAGE_SIZE)
	copy(content, buf)
	p := &Page{id: pageID, content: content}
	p.readHeader()
	return p, nil
}

func (p *Page) readHeader() {
	p.numRecords = int32(binary.BigEndian.Uint32(p.content[0:4]))
	p.freeSpaceStart = int32(binary.BigEndian.Uint32(p.content[4:8]))
}

func (p *Page) writeHeader() {
	binary.BigEndian.PutUint32(p.content[0:4], uint32(p.numRecords))
	binary.BigEndian.PutUint32(p.content[4:8], uint32(p.freeSpaceStart))
}

// ID returns the page's ordinal position within its table file.
func (p *Page) ID() int { return p.id }

// NumRecords returns the number of records currently stored in the page.
func (p *Page) NumRecords() int { return int(p.numRecords) }

// Dirty reports whether the page's in-memory image differs from what was
// last read from or written to disk.
func (p *Page) Dirty() bool { return p.dirty }

// SetDirty marks or clears the page's dirty flag.
func (p *Page) SetDirty(dirty bool) { p.dirty = dirty }

// Bytes returns the page's current PAGE_SIZE on-disk image.
func (p *Page) Bytes() []byte { return p.content }

// HasFreeSpace reports whether a record of recordSize bytes still fits.
func (p *Page) HasFreeSpace(recordSize int) bool {
	return PAGE_SIZE-int(p.freeSpaceStart) >= recordSize
}

// InsertRecord appends record at the next fixed offset, returning its
// record_id, or -1 if there is insufficient space.
func (p *Page) InsertRecord(record []byte) int {
	recordSize := len(record)
	if !p.HasFreeSpace(recordSize) {
		return -1
	}
	offset := headerFields + int(p.numRecords)*recordSize
	copy(p.content[offset:offset+recordSize], record)
	p.numRecords++
	p.freeSpaceStart = int32(headerFields + int(p.numRecords)*recordSize)
	p.writeHeader()
	p.dirty = true
	return int(p.numRecords) - 1
}

// GetRecord returns the recordSize bytes of recordID, or nil if recordID is
// out of range or the computed slice would overrun the page.
func (p *Page) GetRecord(recordID int, recordSize int) []byte {
	if recordID < 0 || recordID >= int(p.numRecords) {
		return nil
	}
	offset := headerFields + recordID*recordSize
	if offset+recordSize > PAGE_SIZE {
		return nil
	}
	out := make([]byte, recordSize)
	copy(out, p.content[offset:offset+recordSize])
	return out
}

// EncodeRID packs a (page_id, record_id) pair into the 32-bit record
// identifier returned by insert operations.
func EncodeRID(pageID, recordID int) int32 {
	return int32(pageID<<16) | int32(recordID)
}

// DecodeRID unpacks a record identifier into its page and record ids.
func DecodeRID(rid int32) (pageID, recordID int) {
	return int(rid >> 16), int(rid & 0xffff)
}
