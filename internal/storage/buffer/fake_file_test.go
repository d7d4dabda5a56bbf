package buffer

import (
	"fmt"
	"sort"

	"github.com/bietkhonhungvandi212/array-db/internal/storage/page"
	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

// fakeFile is an in-memory file.File double used to assert exactly which
// pages are read from / written back to disk, independent of the real
// file.FileManager's I/O.
type fakeFile struct {
	name string

	pages      map[util.PageID]*page.Page
	nextPageNo util.PageID

	writeCalls []util.PageID
	readErr    error
	writeErr   error
}

func newFakeFile(name string) *fakeFile {
	return &fakeFile{name: name, pages: make(map[util.PageID]*page.Page)}
}

func (f *fakeFile) ReadPage(pageNo util.PageID) (*page.Page, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	p, ok := f.pages[pageNo]
	if !ok {
		return nil, fmt.Errorf("fakeFile %s: page %d absent", f.name, pageNo)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeFile) WritePage(p *page.Page) error {
	f.writeCalls = append(f.writeCalls, p.Header.PageID)
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := *p
	f.pages[p.Header.PageID] = &cp
	return nil
}

func (f *fakeFile) AllocatePage() (*page.Page, error) {
	pageNo := f.nextPageNo
	f.nextPageNo++
	p := &page.Page{Header: page.PageHeader{PageID: pageNo}}
	f.pages[pageNo] = p
	return p, nil
}

func (f *fakeFile) DeletePage(pageNo util.PageID) error {
	delete(f.pages, pageNo)
	return nil
}

func (f *fakeFile) Filename() string { return f.name }

func (f *fakeFile) Pages() []util.PageID {
	pages := make([]util.PageID, 0, len(f.pages))
	for pn := range f.pages {
		pages = append(pages, pn)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i] < pages[j] })
	return pages
}

// putPage seeds the fake file's disk contents directly without going
// through AllocatePage, so tests can set up pages at chosen numbers.
func (f *fakeFile) putPage(pageNo util.PageID, data []byte) {
	p := &page.Page{Header: page.PageHeader{PageID: pageNo}}
	copy(p.Data[:], data)
	f.pages[pageNo] = p
	if pageNo >= f.nextPageNo {
		f.nextPageNo = pageNo + 1
	}
}
