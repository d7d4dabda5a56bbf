package buffer

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/file"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/page"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// Option configures a BufferManager at construction.
type Option func(*BufferManager)

// WithLogger overrides the manager's default slog.Default() logger.
func WithLogger(logger *slog.Logger) Option {
	return func(this *BufferManager) { this.log = logger }
}

// BufferManager is a fixed-size pool of page-sized frames caching the
// contents of one or more on-disk files. It assumes a single-threaded
// caller (no internal locks); see LockingManager for the concurrency
// upgrade path.
//
// Destruction does not implicitly flush: any dirty pages still resident
// when a BufferManager is discarded are lost unless FlushFile was called
// first. This is a documented hazard, not a bug.
type BufferManager struct {
	numBufs   int
	bufPool   []page.Page
	descTable []frameDescriptor
	hashIdx   hashIndex
	clockHand int
	log       *slog.Logger
}

// New constructs a buffer manager with numBufs frames. Panics if numBufs
// is not positive, mirroring the teacher pack's convention of treating a
// non-positive pool size as a construction-time programming error.
func New(numBufs int, opts ...Option) *BufferManager {
	if numBufs <= 0 {
		panic(util.ErrInvalidPoolSize)
	}

	bm := &BufferManager{
		numBufs:   numBufs,
		bufPool:   make([]page.Page, numBufs),
		descTable: make([]frameDescriptor, numBufs),
		hashIdx:   newHashIndex(),
		clockHand: numBufs - 1,
		log:       slog.Default(),
	}
	for i := range bm.descTable {
		bm.descTable[i].frameNo = i
	}
	for _, opt := range opts {
		opt(bm)
	}
	return bm
}

func (this *BufferManager) advanceClock() {
	this.clockHand = (this.clockHand + 1) % this.numBufs
}

// allocBuf runs the clock sweep (C5): it returns the index of a frame that
// is now cleared and reserved for the caller's immediate binding, writing
// back a dirty victim first if eviction is required.
func (this *BufferManager) allocBuf() (int, error) {
	var pinnedSeen int

	for {
		this.advanceClock()
		fd := &this.descTable[this.clockHand]

		switch {
		case !fd.valid:
			return this.clockHand, nil

		case fd.pinCnt > 0:
			pinnedSeen++
			if pinnedSeen == this.numBufs {
				return -1, ErrPoolExhausted
			}

		case fd.refbit:
			fd.refbit = false

		default:
			if fd.dirty {
				if err := fd.file.WritePage(&this.bufPool[this.clockHand]); err != nil {
					return -1, fmt.Errorf("writeback frame %d: %w", this.clockHand, err)
				}
			}
			if err := this.hashIdx.remove(fd.file, fd.pageNo); err != nil {
				return -1, err
			}
			victim := this.clockHand
			fd.clear()
			return victim, nil
		}
	}
}

// ReadPage obtains a pinned reference to pageNo's frame, loading it from
// disk on a cache miss. The frame's pin count is incremented by exactly
// one on return.
func (this *BufferManager) ReadPage(f file.File, pageNo util.PageID) (*page.Page, error) {
	if idx, ok := this.hashIdx.lookup(f, pageNo); ok {
		fd := &this.descTable[idx]
		fd.refbit = true
		fd.pinCnt++
		this.log.Debug("buffer: page hit", "file", f.Filename(), "pageNo", pageNo, "frame", idx)
		return &this.bufPool[idx], nil
	}

	idx, err := this.allocBuf()
	if err != nil {
		this.log.Error("buffer: miss, no victim available", "file", f.Filename(), "pageNo", pageNo, "err", err)
		return nil, err
	}

	p, err := f.ReadPage(pageNo)
	if err != nil {
		return nil, err
	}

	this.bufPool[idx] = *p
	if err := this.hashIdx.insert(f, pageNo, idx); err != nil {
		return nil, err
	}
	this.descTable[idx].set(f, pageNo)

	this.log.Debug("buffer: page loaded", "file", f.Filename(), "pageNo", pageNo, "frame", idx)
	return &this.bufPool[idx], nil
}

// UnpinPage decrements pageNo's pin count. If the page is not currently in
// the pool, it returns silently — this tolerates callers that unpin a page
// already evicted out from under them. If dirty is true, the frame's dirty
// flag is set (and stays set until a successful writeback).
func (this *BufferManager) UnpinPage(f file.File, pageNo util.PageID, dirty bool) error {
	idx, ok := this.hashIdx.lookup(f, pageNo)
	if !ok {
		return nil
	}

	fd := &this.descTable[idx]
	if fd.pinCnt == 0 {
		return &NotPinnedError{File: f.Filename(), PageNo: uint64(pageNo), FrameNo: idx}
	}
	fd.pinCnt--
	if dirty {
		fd.dirty = true
	}
	return nil
}

// AllocPage asks file to allocate a fresh page on disk, binds it to a
// frame chosen by allocBuf, and returns a pinned handle to it. The
// returned frame is clean; the caller writes into it and unpins with
// dirty=true.
func (this *BufferManager) AllocPage(f file.File) (util.PageID, *page.Page, error) {
	p, err := f.AllocatePage()
	if err != nil {
		return 0, nil, err
	}
	pageNo := p.Header.PageID

	idx, err := this.allocBuf()
	if err != nil {
		return 0, nil, err
	}

	this.bufPool[idx] = *p
	if err := this.hashIdx.insert(f, pageNo, idx); err != nil {
		return 0, nil, err
	}
	this.descTable[idx].set(f, pageNo)

	this.log.Debug("buffer: page allocated", "file", f.Filename(), "pageNo", pageNo, "frame", idx)
	return pageNo, &this.bufPool[idx], nil
}

// FlushFile writes back every dirty frame of f and unbinds it from the
// pool, ascending by frame index. It fails on the first frame of f that is
// still pinned; frames already processed before the failure remain
// flushed (no rollback).
func (this *BufferManager) FlushFile(f file.File) error {
	for i := 0; i < this.numBufs; i++ {
		fd := &this.descTable[i]
		if fd.file != f {
			continue
		}

		if fd.pinCnt > 0 {
			return &PagePinnedError{File: f.Filename(), PageNo: uint64(fd.pageNo), FrameNo: i}
		}
		if !fd.valid {
			return &BadBufferError{FrameNo: i, Dirty: fd.dirty, Valid: fd.valid, RefBit: fd.refbit}
		}

		if fd.dirty {
			if err := f.WritePage(&this.bufPool[i]); err != nil {
				return fmt.Errorf("flush %s page %d: %w", f.Filename(), fd.pageNo, err)
			}
			fd.dirty = false
		}

		if err := this.hashIdx.remove(f, fd.pageNo); err != nil {
			return err
		}
		fd.clear()
	}
	return nil
}

// DisposePage discards pageNo's contents without writeback regardless of
// its dirty bit, then deletes it on disk. If the page is not currently in
// the pool, it is deleted on disk directly.
func (this *BufferManager) DisposePage(f file.File, pageNo util.PageID) error {
	idx, ok := this.hashIdx.lookup(f, pageNo)
	if !ok {
		return f.DeletePage(pageNo)
	}

	fd := &this.descTable[idx]
	if fd.valid {
		if err := this.hashIdx.remove(f, pageNo); err != nil {
			return err
		}
		fd.clear()
	}
	return f.DeletePage(pageNo)
}

// PrintSelf walks the frame table in index order and logs a summary per
// frame plus the pool's total footprint. It has no effect on buffer state.
func (this *BufferManager) PrintSelf() {
	validFrames := 0
	for i := 0; i < this.numBufs; i++ {
		fd := &this.descTable[i]
		if fd.valid {
			validFrames++
			this.log.Info("buffer: frame",
				"frame", i,
				"file", fd.file.Filename(),
				"pageNo", fd.pageNo,
				"pinCnt", fd.pinCnt,
				"dirty", fd.dirty,
				"refbit", fd.refbit,
			)
		} else {
			this.log.Info("buffer: frame", "frame", i, "valid", false)
		}
	}

	this.log.Info("buffer: pool summary",
		"validFrames", validFrames,
		"numBufs", this.numBufs,
		"footprint", humanize.IBytes(uint64(this.numBufs)*util.PageSize),
	)
}
