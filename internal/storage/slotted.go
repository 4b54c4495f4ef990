package storage

import (
	"github.com/tuannm99/minirel/internal/alias/bx"
)

// SlottedPage packs variable-length records into one fixed-size block.
//
//	+--------------------------+ 0
//	| num_records | end_free   |  u16 + u16 block header
//	| (size, offset) slots     |  slot i at [4i, 4i+4), 1-based
//	+--------------------------+ <- 4*(num_records+1)
//	|        free space        |
//	+--------------------------+ <- end_free (last free byte)
//	|  record payloads         |  grow down toward the header
//	+--------------------------+ BlockSize
//
// A tombstoned record keeps its slot forever with (size, offset) = (0, 0).
type SlottedPage struct {
	buf        []byte
	id         BlockID
	numRecords uint16
	endFree    uint16
}

// NewSlottedPage wraps a BlockSize buffer. A new page gets a fresh header;
// otherwise the header is read from the first four bytes.
func NewSlottedPage(buf []byte, id BlockID, isNew bool) (*SlottedPage, error) {
	if len(buf) != BlockSize {
		return nil, ErrWrongBlockSize
	}
	p := &SlottedPage{buf: buf, id: id}
	if isNew {
		p.numRecords = 0
		p.endFree = BlockSize - 1
		p.putPageHeader()
	} else {
		p.numRecords = bx.U16At(buf, 0)
		p.endFree = bx.U16At(buf, 2)
	}
	return p, nil
}

func (p *SlottedPage) ID() BlockID { return p.id }

// Block exposes the underlying buffer for writing the page back out.
func (p *SlottedPage) Block() []byte { return p.buf }

// FreeSpace is end_free minus the bytes taken by the page header and the
// slot array; Add additionally reserves one slot for the new record.
func (p *SlottedPage) FreeSpace() int {
	return int(p.endFree) - slotSize*(int(p.numRecords)+1)
}

// Add appends a record and returns its new id.
func (p *SlottedPage) Add(data []byte) (RecordID, error) {
	if len(data)+slotSize > p.FreeSpace() {
		return 0, ErrNoRoom
	}
	p.numRecords++
	id := RecordID(p.numRecords)
	size := uint16(len(data))
	p.endFree -= size
	loc := p.endFree + 1
	p.putPageHeader()
	p.putHeader(id, size, loc)
	copy(p.buf[loc:], data)
	return id, nil
}

// Get returns a copy of the record payload, or nil for a tombstone.
func (p *SlottedPage) Get(id RecordID) ([]byte, error) {
	size, loc, err := p.getHeader(id)
	if err != nil {
		return nil, err
	}
	if loc == 0 {
		return nil, nil // tombstone
	}
	out := make([]byte, size)
	copy(out, p.buf[loc:int(loc)+int(size)])
	return out, nil
}

// Put replaces the record payload in place, sliding neighbors to grow or
// reclaim. Fails with ErrNoRoom when growth does not fit.
func (p *SlottedPage) Put(id RecordID, data []byte) error {
	size, loc, err := p.getHeader(id)
	if err != nil {
		return err
	}
	if loc == 0 {
		return ErrBadRecordID
	}
	newSize := uint16(len(data))
	if newSize > size {
		extra := int(newSize) - int(size)
		if extra > int(p.endFree)-slotSize*(int(p.numRecords)+1) {
			return ErrNoRoom
		}
		p.slide(int(loc), int(loc)-extra)
		copy(p.buf[int(loc)-extra:], data)
	} else {
		copy(p.buf[loc:], data)
		p.slide(int(loc)+int(newSize), int(loc)+int(size))
	}
	_, loc, _ = p.getHeader(id)
	p.putHeader(id, newSize, loc)
	return nil
}

// Del tombstones the record: slot becomes (0,0), the hole is reclaimed,
// and the id is never reused.
func (p *SlottedPage) Del(id RecordID) error {
	size, loc, err := p.getHeader(id)
	if err != nil {
		return err
	}
	p.putHeader(id, 0, 0)
	p.slide(int(loc), int(loc)+int(size))
	return nil
}

// IDs lists all live record ids in ascending order.
func (p *SlottedPage) IDs() []RecordID {
	ids := make([]RecordID, 0, p.numRecords)
	for id := RecordID(1); id <= RecordID(p.numRecords); id++ {
		if _, loc, _ := p.getHeader(id); loc != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// slide moves the payload region so that the bytes at [start, end) vanish
// (start < end, reclaim) or open up (start > end, grow), then patches every
// slot whose payload sat at or left of start. Zero shift is a no-op.
func (p *SlottedPage) slide(start, end int) {
	shift := end - start
	if shift == 0 {
		return
	}

	n := start - (int(p.endFree) + 1)
	if n > 0 {
		from := int(p.endFree) + 1
		copy(p.buf[from+shift:from+shift+n], p.buf[from:from+n])
	}

	for _, id := range p.IDs() {
		size, loc, _ := p.getHeader(id)
		if int(loc) <= start {
			p.putHeader(id, size, uint16(int(loc)+shift))
		}
	}
	p.endFree = uint16(int(p.endFree) + shift)
	p.putPageHeader()
}

// getHeader reads the (size, offset) pair for a record id.
func (p *SlottedPage) getHeader(id RecordID) (size, loc uint16, err error) {
	if id < 1 || id > RecordID(p.numRecords) {
		return 0, 0, ErrBadRecordID
	}
	off := slotSize * int(id)
	return bx.U16At(p.buf, off), bx.U16At(p.buf, off+2), nil
}

func (p *SlottedPage) putHeader(id RecordID, size, loc uint16) {
	off := slotSize * int(id)
	bx.PutU16At(p.buf, off, size)
	bx.PutU16At(p.buf, off+2, loc)
}

func (p *SlottedPage) putPageHeader() {
	bx.PutU16At(p.buf, 0, p.numRecords)
	bx.PutU16At(p.buf, 2, p.endFree)
}
