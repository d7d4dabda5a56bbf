package buffer

import (
	"errors"
	"fmt"
)

// errHashNotFound is the internal hash-index miss signal. A lookup miss is
// ordinary branch logic (see hashIndex.lookup's ok return); a remove miss
// should never happen when the manager's invariants hold, so it is wrapped
// and allowed to surface as a bug rather than caught.
var errHashNotFound = errors.New("hash index: key not found")

// ErrPoolExhausted is raised by allocBuf (and hence ReadPage on a miss, and
// AllocPage) when every frame in the pool is pinned and no victim can be
// selected.
var ErrPoolExhausted = errors.New("buffer pool exhausted: all frames pinned")

// NotPinnedError is raised by UnpinPage when the caller unpins a frame
// whose pin count is already zero.
type NotPinnedError struct {
	File    string
	PageNo  uint64
	FrameNo int
}

func (e *NotPinnedError) Error() string {
	return fmt.Sprintf("unpin %s page %d (frame %d): page is not pinned", e.File, e.PageNo, e.FrameNo)
}

// PagePinnedError is raised by FlushFile when a frame belonging to the
// target file still has outstanding pins.
type PagePinnedError struct {
	File    string
	PageNo  uint64
	FrameNo int
}

func (e *PagePinnedError) Error() string {
	return fmt.Sprintf("flush %s: page %d (frame %d) is still pinned", e.File, e.PageNo, e.FrameNo)
}

// BadBufferError is raised by FlushFile when it finds a frame associated
// with the target file but marked invalid — an internal invariant
// violation, not a normal runtime condition.
type BadBufferError struct {
	FrameNo int
	Dirty   bool
	Valid   bool
	RefBit  bool
}

func (e *BadBufferError) Error() string {
	return fmt.Sprintf("bad buffer: frame %d valid=%v dirty=%v refbit=%v", e.FrameNo, e.Valid, e.Dirty, e.RefBit)
}
