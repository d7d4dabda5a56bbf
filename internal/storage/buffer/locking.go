package buffer

import (
	"sync"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/file"
	"github.com/bietkhonhungvandi212/array-db/internal/storage/page"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// LockingManager is the documented concurrency upgrade path (see the core
// spec's concurrency notes): it wraps a *BufferManager behind a single
// mutex covering every public call. The underlying BufferManager itself
// stays single-threaded and lock-free; this type exists for callers that
// need to drive the same pool from more than one goroutine and are willing
// to trade the clock hand's scalability for correctness.
type LockingManager struct {
	mu  sync.Mutex
	mgr *BufferManager
}

// NewLocking constructs a mutex-guarded buffer manager with numBufs frames.
func NewLocking(numBufs int, opts ...Option) *LockingManager {
	return &LockingManager{mgr: New(numBufs, opts...)}
}

func (lm *LockingManager) ReadPage(f file.File, pageNo util.PageID) (*page.Page, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.mgr.ReadPage(f, pageNo)
}

func (lm *LockingManager) UnpinPage(f file.File, pageNo util.PageID, dirty bool) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.mgr.UnpinPage(f, pageNo, dirty)
}

func (lm *LockingManager) AllocPage(f file.File) (util.PageID, *page.Page, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.mgr.AllocPage(f)
}

func (lm *LockingManager) FlushFile(f file.File) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.mgr.FlushFile(f)
}

func (lm *LockingManager) DisposePage(f file.File, pageNo util.PageID) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.mgr.DisposePage(f, pageNo)
}

func (lm *LockingManager) PrintSelf() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.mgr.PrintSelf()
}
