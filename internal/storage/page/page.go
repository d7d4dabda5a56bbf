package page

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

const (
	HEADER_SIZE = 16 // Size of PageHeader struct: PageID(8) + Checksum(8)
)

// Page is block that read/write from disk
type Page struct {
	Header PageHeader
	Data   [util.PageSize - HEADER_SIZE]byte
}

type PageHeader struct {
	PageID   util.PageID // 8 bytes
	Checksum uint64      // 8 bytes, xxhash64 over Data
}

// Serialize packs the page into a byte slice for writing, recomputing the
// checksum over the current payload.
func (p *Page) Serialize() []byte {
	p.Header.Checksum = xxhash.Sum64(p.Data[:])

	buf := make([]byte, util.PageSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.Header.PageID))
	binary.LittleEndian.PutUint64(buf[8:16], p.Header.Checksum)
	copy(buf[HEADER_SIZE:], p.Data[:])

	return buf
}

// Deserialize unpacks a page from bytes, validating its checksum.
func Deserialize(data []byte) (*Page, error) {
	if len(data) != util.PageSize {
		return nil, util.ErrPageOutOfBounds
	}

	p := &Page{
		Header: PageHeader{
			PageID:   util.PageID(binary.LittleEndian.Uint64(data[0:8])),
			Checksum: binary.LittleEndian.Uint64(data[8:16]),
		},
	}
	copy(p.Data[:], data[HEADER_SIZE:])

	if xxhash.Sum64(p.Data[:]) != p.Header.Checksum {
		return nil, util.ErrChecksumMismatch
	}

	return p, nil
}
