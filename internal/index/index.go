// Package index carries the capability the catalog needs from a secondary
// index: materialize and remove its on-disk presence. Search and insert
// algorithms live elsewhere; the catalog only tracks existence and shape.
package index

import (
	"github.com/tuannm99/minirel/internal/storage"
)

type DbIndex interface {
	Create() error
	Drop() error
}

// BTreeIndex owns one backing file per index, named <table>-<index>.db
// inside the environment directory.
type BTreeIndex struct {
	file *storage.HeapFile
}

var _ DbIndex = (*BTreeIndex)(nil)

func NewBTreeIndex(dir, table, name string) *BTreeIndex {
	return &BTreeIndex{file: storage.NewHeapFile(dir, table+"-"+name)}
}

func (ix *BTreeIndex) Create() error { return ix.file.Create() }

func (ix *BTreeIndex) Drop() error { return ix.file.Drop() }
