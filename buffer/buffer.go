// Package buffer implements the bounded in-memory page cache sitting
// between the storage engine and the pager: pin/unpin semantics, LRU
// eviction, dirty-page tracking, and write-back.
package buffer

import (
	"container/list"
	"errors"
	"fmt"

	"pagedb/pager"
)

// DefaultCapacity is the number of resident pages the pool holds when no
// explicit capacity is configured.
const DefaultCapacity = 100

// ErrEvictionImpossible is returned when every resident page is pinned and
// the pool must evict to satisfy a pin request.
var ErrEvictionImpossible = errors.New("buffer: no unpinned page available to evict")

type key struct {
	table  string
	pageID int
}

type frame struct {
	key      key
	page     *pager.Page
	pinCount int
}

// fileManager is the subset of *pager.FileManager the pool depends on,
// kept as an interface so tests can substitute a fake.
type fileManager interface {
	ReadPage(table string, pageID int) ([]byte, error)
	WritePage(table string, pageID int, data []byte) error
	AllocatePage(table string) (int, error)
}

// Pool is a bounded (table, page_id) -> Page cache with pin counts, a dirty
// set, and classic LRU eviction over unpinned pages. It is not safe for
// concurrent use; the engine executes one statement to completion before
// starting the next.
type Pool struct {
	fm       fileManager
	capacity int

	frames map[key]*list.Element
	// order runs least- to most-recently touched; the front is the next
	// eviction candidate.
	order     *list.List
	dirtySet  map[key]bool
}

// New returns a Pool backed by fm with room for capacity resident pages.
func New(fm fileManager, capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		fm:       fm,
		capacity: capacity,
		frames:   make(map[key]*list.Element),
		order:    list.New(),
		dirtySet: make(map[key]bool),
	}
}

// PinPage returns the page, pinning it and marking it most-recently-used.
// If the page is not resident it is loaded from disk, evicting an unpinned
// page first if the pool is at capacity. It returns nil, nil if the file
// manager returns no data for the page (with *pager.FileManager, when the
// table's file does not exist); a read past the end of an existing file is
// an error.
func (p *Pool) PinPage(table string, pageID int) (*pager.Page, error) {
	k := key{table, pageID}
	if el, ok := p.frames[k]; ok {
		fr := el.Value.(*frame)
		fr.pinCount++
		p.order.MoveToBack(el)
		return fr.page, nil
	}

	if len(p.frames) >= p.capacity {
		if err := p.evict(); err != nil {
			return nil, err
		}
	}

	raw, err := p.fm.ReadPage(table, pageID)
	if err != nil {
		return nil, fmt.Errorf("buffer: pin page: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	pg, err := pager.FromBytes(pageID, raw)
	if err != nil {
		return nil, fmt.Errorf("buffer: pin page: %w", err)
	}

	fr := &frame{key: k, page: pg, pinCount: 1}
	p.frames[k] = p.order.PushBack(fr)
	return pg, nil
}

// UnpinPage decrements the pin count for (table, page_id). It is a no-op if
// the page is not resident. If isDirty the page is added to the dirty set;
// if the pin count reaches zero and the page is dirty, it is flushed
// immediately (write-through on last unpin).
func (p *Pool) UnpinPage(table string, pageID int, isDirty bool) error {
	k := key{table, pageID}
	el, ok := p.frames[k]
	if !ok {
		return nil
	}
	fr := el.Value.(*frame)
	if fr.pinCount > 0 {
		fr.pinCount--
	}
	if isDirty {
		p.dirtySet[k] = true
		fr.page.SetDirty(true)
	}
	p.order.MoveToBack(el)
	if fr.pinCount == 0 && p.dirtySet[k] {
		if err := p.flush(k, fr); err != nil {
			return err
		}
	}
	return nil
}

// FlushPage writes the page for (table, page_id) to disk if it is resident
// and dirty.
func (p *Pool) FlushPage(table string, pageID int) error {
	k := key{table, pageID}
	el, ok := p.frames[k]
	if !ok || !p.dirtySet[k] {
		return nil
	}
	return p.flush(k, el.Value.(*frame))
}

func (p *Pool) flush(k key, fr *frame) error {
	if err := p.fm.WritePage(k.table, k.pageID, fr.page.Bytes()); err != nil {
		return fmt.Errorf("buffer: flush page: %w", err)
	}
	delete(p.dirtySet, k)
	fr.page.SetDirty(false)
	return nil
}

// FlushAll writes every dirty resident page to disk.
func (p *Pool) FlushAll() error {
	for k := range p.dirtySet {
		el, ok := p.frames[k]
		if !ok {
			continue
		}
		if err := p.flush(k, el.Value.(*frame)); err != nil {
			return err
		}
	}
	return nil
}

// AllocatePage asks the file manager for a fresh page, pins it (count 1),
// and marks it dirty. It returns nil, nil if the table has no backing file.
func (p *Pool) AllocatePage(table string) (*pager.Page, error) {
	pageID, err := p.fm.AllocatePage(table)
	if err != nil {
		return nil, fmt.Errorf("buffer: allocate page: %w", err)
	}
	if pageID == -1 {
		return nil, nil
	}
	if len(p.frames) >= p.capacity {
		if err := p.evict(); err != nil {
			return nil, err
		}
	}
	pg := pager.New(pageID)
	pg.SetDirty(true)
	k := key{table, pageID}
	fr := &frame{key: k, page: pg, pinCount: 1}
	p.frames[k] = p.order.PushBack(fr)
	p.dirtySet[k] = true
	return pg, nil
}

// evict removes the least-recently-used unpinned page, flushing it first if
// dirty.
func (p *Pool) evict() error {
	for el := p.order.Front(); el != nil; el = el.Next() {
		fr := el.Value.(*frame)
		if fr.pinCount != 0 {
			continue
		}
		if p.dirtySet[fr.key] {
			if err := p.flush(fr.key, fr); err != nil {
				return err
			}
		}
		p.order.Remove(el)
		delete(p.frames, fr.key)
		delete(p.dirtySet, fr.key)
		return nil
	}
	return ErrEvictionImpossible
}

// PurgeTable evicts every resident page belonging to table, flushing dirty
// pages first. Used by DROP TABLE before the backing file is removed.
func (p *Pool) PurgeTable(table string) error {
	var toRemove []*list.Element
	for el := p.order.Front(); el != nil; el = el.Next() {
		fr := el.Value.(*frame)
		if fr.key.table != table {
			continue
		}
		if p.dirtySet[fr.key] {
			if err := p.flush(fr.key, fr); err != nil {
				return err
			}
		}
		toRemove = append(toRemove, el)
	}
	for _, el := range toRemove {
		fr := el.Value.(*frame)
		p.order.Remove(el)
		delete(p.frames, fr.key)
		delete(p.dirtySet, fr.key)
	}
	return nil
}

// Resident reports how many pages are currently resident. Used by tests.
func (p *Pool) Resident() int { return len(p.frames) }

// PinCount reports the current pin count of (table, page_id), or -1 if not
// resident. Used by tests.
func (p *Pool) PinCount(table string, pageID int) int {
	el, ok := p.frames[key{table, pageID}]
	if !ok {
		return -1
	}
	return el.Value.(*frame).pinCount
}
