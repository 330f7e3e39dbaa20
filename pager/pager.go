// Package pager provides per-table file I/O in page-sized units. Each table
// lives in its own file with a 4-byte page-count header followed by
// contiguous fixed-size pages. The pager has no notion of records or
// schemas; it only knows how to grow a file by one page and read or write a
// page at a given offset.
package pager

import (
	"encoding/binary"
	"fmt"
	"os"
)

// PAGE_SIZE is the fixed size, in bytes, of every page in every table file.
const PAGE_SIZE = 4096

// headerSize is the width of the page-count header prefixing every table
// file.
const headerSize = 4

var (
	// ErrPageSizeMismatch is returned by WritePage when the supplied buffer
	// is not exactly PAGE_SIZE bytes.
	ErrPageSizeMismatch = fmt.Errorf("pager: page data must be exactly %d bytes", PAGE_SIZE)
)

// FileManager owns per-table file I/O. A file handle is opened and released
// within each call; nothing is held open between calls.
type FileManager struct {
	dataDir string
}

// NewFileManager returns a FileManager rooted at dataDir, creating the
// directory if it does not already exist.
func NewFileManager(dataDir string) (*FileManager, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("pager: create data dir: %w", err)
	}
	return &FileManager{dataDir: dataDir}, nil
}

func (fm *FileManager) path(table string) string {
	return fmt.Sprintf("%s/%s.dat", fm.dataDir, table)
}

// FileExists reports whether table's backing file has been created.
func (fm *FileManager) FileExists(table string) bool {
	_, err := os.Stat(fm.path(table))
	return err == nil
}

// CreateFile creates table's backing file with a zero page-count header. It
// is idempotent on existence: if the file already exists this is a no-op
// and false is returned.
func (fm *FileManager) CreateFile(table string) (bool, error) {
	if fm.FileExists(table) {
		return false, nil
	}
	f, err := os.OpenFile(fm.path(table), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return false, fmt.Errorf("pager: create file: %w", err)
	}
	defer f.Close()
	var hdr [headerSize]byte
	if _, err := f.Write(hdr[:]); err != nil {
		return false, fmt.Errorf("pager: write header: %w", err)
	}
	return true, nil
}

// DeleteFile removes table's backing file if present, reporting whether a
// file was actually removed.
func (fm *FileManager) DeleteFile(table string) (bool, error) {
	if !fm.FileExists(table) {
		return false, nil
	}
	if err := os.Remove(fm.path(table)); err != nil {
		return false, fmt.Errorf("pager: delete file: %w", err)
	}
	return true, nil
}

// ReadPage returns exactly PAGE_SIZE bytes for page_id, or nil if the file
// does not exist.
func (fm *FileManager) ReadPage(table string, pageID int) ([]byte, error) {
	f, err := os.Open(fm.path(table))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("pager: open file: %w", err)
	}
	defer f.Close()
	buf := make([]byte, PAGE_SIZE)
	off := int64(headerSize + pageID*PAGE_SIZE)
	if _, err := f.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("pager: read page %d of %s: %w", pageID, table, err)
	}
	return buf, nil
}

// WritePage writes data to page_id of table in place. data must be exactly
// PAGE_SIZE bytes.
func (fm *FileManager) WritePage(table string, pageID int, data []byte) error {
	if len(data) != PAGE_SIZE {
		return ErrPageSizeMismatch
	}
	if !fm.FileExists(table) {
		return fmt.Errorf("pager: write page: table %q has no backing file", table)
	}
	f, err := os.OpenFile(fm.path(table), os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("pager: open file: %w", err)
	}
	defer f.Close()
	off := int64(headerSize + pageID*PAGE_SIZE)
	if _, err := f.WriteAt(data, off); err != nil {
		return fmt.Errorf("pager: write page %d of %s: %w", pageID, table, err)
	}
	return nil
}

// AllocatePage atomically increments table's page-count header and appends
// a fresh zeroed page, returning the pre-increment count as the new page's
// id. It returns -1 if the file does not exist.
func (fm *FileManager) AllocatePage(table string) (int, error) {
	if !fm.FileExists(table) {
		return -1, nil
	}
	f, err := os.OpenFile(fm.path(table), os.O_RDWR, 0o644)
	if err != nil {
		return -1, fmt.Errorf("pager: open file: %w", err)
	}
	defer f.Close()

	var hdr [headerSize]byte
	if _, err := f.ReadAt(hdr[:], 0); err != nil {
		return -1, fmt.Errorf("pager: read header: %w", err)
	}
	count := int(int32(binary.BigEndian.Uint32(hdr[:])))

	binary.BigEndian.PutUint32(hdr[:], uint32(count+1))
	if _, err := f.WriteAt(hdr[:], 0); err != nil {
		return -1, fmt.Errorf("pager: write header: %w", err)
	}

	zero := make([]byte, PAGE_SIZE)
	if _, err := f.WriteAt(zero, int64(headerSize+count*PAGE_SIZE)); err != nil {
		return -1, fmt.Errorf("pager: extend file: %w", err)
	}
	return count, nil
}

// GetPageCount reads table's page-count header. It returns 0 if the file
// does not exist.
func (fm *FileManager) GetPageCount(table string) (int, error) {
	if !fm.FileExists(table) {
		return 0, nil
	}
	f, err := os.Open(fm.path(table))
	if err != nil {
		return 0, fmt.Errorf("pager: open file: %w", err)
	}
	defer f.Close()
	var hdr [headerSize]byte
	if _, err := f.ReadAt(hdr[:], 0); err != nil {
		return 0, fmt.Errorf("pager: read header: %w", err)
	}
	return int(int32(binary.BigEndian.Uint32(hdr[:]))), nil
}
