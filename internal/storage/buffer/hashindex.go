package buffer

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/file"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// bufKey identifies a page by the identity of the file it lives in plus its
// page number. file.File values here are always pointers, so bufKey is a
// comparable, usable map key.
type bufKey struct {
	file   file.File
	pageNo util.PageID
}

// hashIndex is the associative container the manager consults to find an
// existing binding for (file, pageNo). Lookup misses are reported as a
// plain "not found" boolean rather than a raised error, per the design
// note that the core should model a two-outcome lookup as a sum result
// rather than exceptional control flow.
type hashIndex interface {
	lookup(f file.File, pageNo util.PageID) (frameIdx int, ok bool)
	insert(f file.File, pageNo util.PageID, frameIdx int) error
	remove(f file.File, pageNo util.PageID) error
}

// xsyncHashIndex backs the hash index with a lock-free-for-readers
// concurrent map, so the index itself is already safe to read from
// multiple goroutines even when the caller hasn't opted into the full
// LockingManager wrapper.
type xsyncHashIndex struct {
	m *xsync.MapOf[bufKey, int]
}

func newHashIndex() *xsyncHashIndex {
	return &xsyncHashIndex{m: xsync.NewMapOf[bufKey, int]()}
}

func (h *xsyncHashIndex) lookup(f file.File, pageNo util.PageID) (int, bool) {
	return h.m.Load(bufKey{f, pageNo})
}

func (h *xsyncHashIndex) insert(f file.File, pageNo util.PageID, frameIdx int) error {
	key := bufKey{f, pageNo}
	if _, exists := h.m.Load(key); exists {
		return fmt.Errorf("hash index: key (%s, %d) already present", f.Filename(), pageNo)
	}
	h.m.Store(key, frameIdx)
	return nil
}

func (h *xsyncHashIndex) remove(f file.File, pageNo util.PageID) error {
	key := bufKey{f, pageNo}
	if _, existed := h.m.LoadAndDelete(key); !existed {
		return fmt.Errorf("hash index: remove (%s, %d): %w", f.Filename(), pageNo, errHashNotFound)
	}
	return nil
}
