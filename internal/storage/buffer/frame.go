package buffer

import (
	"github.com/bietkhonhungvandi212/array-db/internal/storage/file"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// frameDescriptor is the per-frame metadata the replacement engine and the
// manager consult: occupancy, pin count, dirty/valid/reference bits, and
// the owning (file, pageNo) when valid.
type frameDescriptor struct {
	frameNo int
	valid   bool
	dirty   bool
	refbit  bool
	pinCnt  int
	file    file.File
	pageNo  util.PageID
}

// set binds the descriptor to (f, pageNo) with a single outstanding pin,
// per the manager's contract that a freshly loaded or allocated frame
// always returns to its caller already pinned once.
func (fd *frameDescriptor) set(f file.File, pageNo util.PageID) {
	fd.file = f
	fd.pageNo = pageNo
	fd.valid = true
	fd.pinCnt = 1
	fd.dirty = false
	fd.refbit = false
}

// clear unbinds the descriptor, returning it to the free state.
func (fd *frameDescriptor) clear() {
	fd.valid = false
	fd.pinCnt = 0
	fd.dirty = false
	fd.refbit = false
	fd.file = nil
	fd.pageNo = 0
}
