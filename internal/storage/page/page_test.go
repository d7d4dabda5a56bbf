package page

import (
	"testing"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	p := CreateTestPage(util.PageID(7), []byte("hello buffer manager"))

	buf := p.Serialize()
	if len(buf) != util.PageSize {
		t.Fatalf("serialized page size = %d, want %d", len(buf), util.PageSize)
	}

	got, err := Deserialize(buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Header.PageID != p.Header.PageID {
		t.Errorf("PageID = %d, want %d", got.Header.PageID, p.Header.PageID)
	}
	if got.Data != p.Data {
		t.Errorf("Data mismatch after round trip")
	}
}

func TestDeserializeDetectsCorruption(t *testing.T) {
	p := CreateTestPage(util.PageID(1), []byte("payload"))
	buf := p.Serialize()

	buf[HEADER_SIZE] ^= 0xFF // flip a payload byte without touching the checksum

	if _, err := Deserialize(buf); err != util.ErrChecksumMismatch {
		t.Fatalf("Deserialize error = %v, want %v", err, util.ErrChecksumMismatch)
	}
}

func TestDeserializeRejectsWrongSize(t *testing.T) {
	if _, err := Deserialize(make([]byte, util.PageSize-1)); err != util.ErrPageOutOfBounds {
		t.Fatalf("Deserialize error = %v, want %v", err, util.ErrPageOutOfBounds)
	}
}
