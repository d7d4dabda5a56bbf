package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	util "github.com/bietkhonhungvandi212/array-db/internal/utils"
)

func TestHashIndexLookupInsertRemove(t *testing.T) {
	h := newHashIndex()
	f := newFakeFile("f1")

	_, ok := h.lookup(f, 1)
	assert.False(t, ok)

	require.NoError(t, h.insert(f, 1, 5))
	idx, ok := h.lookup(f, 1)
	require.True(t, ok)
	assert.Equal(t, 5, idx)

	require.NoError(t, h.remove(f, 1))
	_, ok = h.lookup(f, 1)
	assert.False(t, ok)
}

func TestHashIndexInsertRejectsDuplicateKey(t *testing.T) {
	h := newHashIndex()
	f := newFakeFile("f1")

	require.NoError(t, h.insert(f, 1, 0))
	err := h.insert(f, 1, 1)
	assert.Error(t, err)
}

func TestHashIndexRemoveMissingKeyErrors(t *testing.T) {
	h := newHashIndex()
	f := newFakeFile("f1")

	err := h.remove(f, 1)
	assert.ErrorIs(t, err, errHashNotFound)
}

func TestHashIndexDistinctFilesDoNotCollide(t *testing.T) {
	h := newHashIndex()
	f1 := newFakeFile("f1")
	f2 := newFakeFile("f2")

	require.NoError(t, h.insert(f1, util.PageID(1), 0))
	require.NoError(t, h.insert(f2, util.PageID(1), 1))

	idx1, ok := h.lookup(f1, 1)
	require.True(t, ok)
	idx2, ok := h.lookup(f2, 1)
	require.True(t, ok)
	assert.NotEqual(t, idx1, idx2)
}
