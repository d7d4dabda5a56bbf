package file

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/btree"
	"github.com/vmihailenco/msgpack"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/page"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// File is the durable backing store the buffer manager drives on a cache
// miss or eviction: allocate/read/write/delete a page by page number.
type File interface {
	ReadPage(pageNo util.PageID) (*page.Page, error)
	WritePage(p *page.Page) error
	AllocatePage() (*page.Page, error)
	DeletePage(pageNo util.PageID) error
	Filename() string
	// Pages enumerates currently allocated (non-free) page numbers, ascending.
	Pages() []util.PageID
}

var _ File = (*FileManager)(nil)

var errReadOnly = errors.New("file manager opened read-only")

// fileMeta is the durable sidecar: next unused page number plus the set of
// deleted page numbers available for reuse. Persisted with msgpack so a
// restart doesn't reuse a live page number or leak a freed one.
type fileMeta struct {
	NextPageNo uint64   `msgpack:"next_page_no"`
	Free       []uint64 `msgpack:"free"`
}

/**
* This module is used to read and write pages from / to disk.
**/
type FileManager struct {
	File     *os.File
	path     string
	metaPath string
	readOnly bool
	sync     bool

	mu         sync.Mutex
	nextPageNo uint64
	free       *btree.BTreeG[util.PageID]
}

func pageIDLess(a, b util.PageID) bool { return a < b }

// NewFileManager opens (creating if absent) the data file at path and its
// `<path>.meta` sidecar, restoring the free-page set and next-page counter
// from a previous run if present.
func NewFileManager(path string) (*FileManager, error) {
	return NewFileManagerWithOptions(util.Options{Path: path})
}

// NewFileManagerWithOptions is NewFileManager plus opts.ReadOnly (rejects
// every mutating call) and opts.SyncWrites (fsyncs the data file after
// every WritePage, trading throughput for durability against a crash right
// after a write returns).
func NewFileManagerWithOptions(opts util.Options) (*FileManager, error) {
	flags := os.O_RDWR | os.O_CREATE
	if opts.ReadOnly {
		flags = os.O_RDONLY
	}
	f, err := os.OpenFile(opts.Path, flags, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	fm := &FileManager{
		File:     f,
		path:     opts.Path,
		metaPath: opts.Path + ".meta",
		readOnly: opts.ReadOnly,
		sync:     opts.SyncWrites,
		free:     btree.NewBTreeG(pageIDLess),
	}

	if err := fm.loadMeta(); err != nil {
		f.Close()
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	return fm, nil
}

func (fm *FileManager) loadMeta() error {
	raw, err := os.ReadFile(fm.metaPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	var meta fileMeta
	if err := msgpack.Unmarshal(raw, &meta); err != nil {
		return err
	}

	fm.nextPageNo = meta.NextPageNo
	for _, pn := range meta.Free {
		fm.free.Set(util.PageID(pn))
	}
	return nil
}

// saveMetaLocked persists the next-page counter and free set. Caller holds fm.mu.
func (fm *FileManager) saveMetaLocked() error {
	meta := fileMeta{NextPageNo: fm.nextPageNo}
	fm.free.Scan(func(pn util.PageID) bool {
		meta.Free = append(meta.Free, uint64(pn))
		return true
	})

	raw, err := msgpack.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return os.WriteFile(fm.metaPath, raw, 0o666)
}

// ReadPage returns the page's bytes; fails if pageNo was never allocated.
func (fm *FileManager) ReadPage(pageNo util.PageID) (*page.Page, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	if uint64(pageNo) >= fm.nextPageNo {
		return nil, util.ErrPageOutOfBounds
	}

	buf := make([]byte, util.PageSize)
	offset := int64(pageNo) * int64(util.PageSize)
	if _, err := fm.File.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("read page %d: %w", pageNo, err)
	}

	p, err := page.Deserialize(buf)
	if err != nil {
		return nil, fmt.Errorf("deserialize page %d: %w", pageNo, err)
	}
	return p, nil
}

// WritePage persists the page identified by its embedded page number.
func (fm *FileManager) WritePage(p *page.Page) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.writePageLocked(p)
}

func (fm *FileManager) writePageLocked(p *page.Page) error {
	if fm.readOnly {
		return fmt.Errorf("write page %d: %w", p.Header.PageID, errReadOnly)
	}
	offset := int64(p.Header.PageID) * int64(util.PageSize)
	if _, err := fm.File.WriteAt(p.Serialize(), offset); err != nil {
		return fmt.Errorf("write page %d: %w", p.Header.PageID, err)
	}
	if fm.sync {
		if err := fm.File.Sync(); err != nil {
			return fmt.Errorf("sync after write page %d: %w", p.Header.PageID, err)
		}
	}
	return nil
}

// AllocatePage reserves a fresh page number, reusing the smallest deleted
// page number if one is free, and writes a zeroed page at that offset so
// the file's extent always covers every allocated page.
func (fm *FileManager) AllocatePage() (*page.Page, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	if fm.readOnly {
		return nil, errReadOnly
	}

	var pageNo util.PageID
	if min, ok := fm.free.Min(); ok {
		fm.free.Delete(min)
		pageNo = min
	} else {
		pageNo = util.PageID(fm.nextPageNo)
		fm.nextPageNo++
	}

	p := &page.Page{Header: page.PageHeader{PageID: pageNo}}
	if err := fm.writePageLocked(p); err != nil {
		return nil, err
	}
	if err := fm.saveMetaLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePage frees pageNo on disk, making it available for a later
// AllocatePage. The file is not truncated.
func (fm *FileManager) DeletePage(pageNo util.PageID) error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	if fm.readOnly {
		return errReadOnly
	}

	fm.free.Set(pageNo)
	return fm.saveMetaLocked()
}

// Filename identifies this file for diagnostics and error messages.
func (fm *FileManager) Filename() string {
	return fm.path
}

// Pages enumerates currently allocated (non-free) page numbers, ascending.
func (fm *FileManager) Pages() []util.PageID {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	pages := make([]util.PageID, 0, fm.nextPageNo)
	for pn := uint64(0); pn < fm.nextPageNo; pn++ {
		if _, freed := fm.free.Get(util.PageID(pn)); !freed {
			pages = append(pages, util.PageID(pn))
		}
	}
	return pages
}

// Close fsyncs the data file (unless read-only) and closes the underlying
// file descriptor. Metadata is not written here; AllocatePage and
// DeletePage already persist it.
func (fm *FileManager) Close() error {
	if fm == nil {
		return nil // Idempotent
	}

	var err error
	if fm.File != nil {
		if !fm.readOnly {
			if e := fm.File.Sync(); e != nil {
				err = errors.Join(err, fmt.Errorf("sync file: %w", e))
			}
		}
		if e := fm.File.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("close file: %w", e))
		}
		fm.File = nil
	}
	return err
}
