package storage

import (
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/tuannm99/minirel/internal/recfile"
)

// HeapFile owns one on-disk file whose records are BlockSize pages,
// addressed by 1-based BlockID. The file is never empty: Create allocates
// the first page immediately.
type HeapFile struct {
	name   string
	path   string
	store  *recfile.Store
	last   BlockID
	closed bool
}

// NewHeapFile binds a table name to its backing file inside dir. The file
// is not touched until Create or Open.
func NewHeapFile(dir, name string) *HeapFile {
	return &HeapFile{
		name:   name,
		path:   filepath.Join(dir, name+".db"),
		closed: true,
	}
}

func (f *HeapFile) Name() string { return f.name }
func (f *HeapFile) Path() string { return f.path }

// Create makes the physical file, failing if it already exists, and forces
// one empty page into it.
func (f *HeapFile) Create() error {
	if !f.closed {
		return fmt.Errorf("%w: create %s: already exists", recfile.ErrBackingStore, f.path)
	}
	if err := f.dbOpen(recfile.Create | recfile.Excl); err != nil {
		return err
	}
	_, err := f.GetNew()
	return err
}

// Drop closes the file if needed and removes it. A dropped heap file is
// permanently unusable.
func (f *HeapFile) Drop() error {
	var err error
	if !f.closed {
		err = f.Close()
	}
	return multierr.Append(err, recfile.Remove(f.path))
}

// Open opens the existing physical file. Opening an already-open file is
// a no-op.
func (f *HeapFile) Open() error {
	return f.dbOpen(0)
}

func (f *HeapFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.store.Close()
}

// GetNew allocates the next block: writes it zeroed, reads it back, and
// returns a new-mode SlottedPage over the store's buffer.
func (f *HeapFile) GetNew() (*SlottedPage, error) {
	if err := f.ensureOpen(); err != nil {
		return nil, err
	}
	f.last++
	id := f.last

	zero := make([]byte, BlockSize)
	if err := f.store.Put(int32(id), zero); err != nil {
		return nil, err
	}
	buf, err := f.store.Get(int32(id))
	if err != nil {
		return nil, err
	}
	page, err := NewSlottedPage(buf, id, true)
	if err != nil {
		return nil, err
	}
	// write it out again with the header initialized
	if err := f.store.Put(int32(id), page.Block()); err != nil {
		return nil, err
	}
	return page, nil
}

// Get fetches one block from the file.
func (f *HeapFile) Get(id BlockID) (*SlottedPage, error) {
	if err := f.ensureOpen(); err != nil {
		return nil, err
	}
	buf, err := f.store.Get(int32(id))
	if err != nil {
		return nil, err
	}
	return NewSlottedPage(buf, id, false)
}

// Put writes a page back under its block id.
func (f *HeapFile) Put(page *SlottedPage) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	return f.store.Put(int32(page.ID()), page.Block())
}

func (f *HeapFile) ensureOpen() error {
	if f.closed {
		return fmt.Errorf("%w: %s is not open", recfile.ErrBackingStore, f.path)
	}
	return nil
}

// BlockIDs lists every block id, 1..last.
func (f *HeapFile) BlockIDs() []BlockID {
	ids := make([]BlockID, 0, f.last)
	for id := BlockID(1); id <= f.last; id++ {
		ids = append(ids, id)
	}
	return ids
}

func (f *HeapFile) LastBlockID() BlockID { return f.last }

// dbOpen opens the backing store. With no flags the block count is
// recovered from the store's record-count statistic.
func (f *HeapFile) dbOpen(flags recfile.OpenFlag) error {
	if !f.closed {
		return nil
	}
	store, err := recfile.Open(f.path, flags, BlockSize)
	if err != nil {
		return err
	}
	f.store = store
	if flags == 0 {
		st, err := store.Stat()
		if err != nil {
			_ = store.Close()
			return err
		}
		f.last = BlockID(st.RecordCount)
	} else {
		f.last = 0
	}
	f.closed = false
	return nil
}
