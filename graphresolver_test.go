package kgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphResolver_DefaultGraphIsFirstFile(t *testing.T) {
	t.Parallel()

	r := newGraphResolver([]string{"/data/g1.tsv", "/data/g2.tsv"})
	assert.Equal(t, "/data/g1.tsv", r.defaultGraph())
}

func TestGraphResolver_DefaultGraphEmpty(t *testing.T) {
	t.Parallel()

	r := newGraphResolver(nil)
	assert.Equal(t, "", r.defaultGraph())
}

func TestGraphResolver_FullPathMatch(t *testing.T) {
	t.Parallel()

	r := newGraphResolver([]string{"/data/g1.tsv", "/data/g2.tsv"})

	path, err := r.resolve("/data/g1.tsv")
	require.NoError(t, err)
	assert.Equal(t, "/data/g1.tsv", path)
}

func TestGraphResolver_SubstringBasenameMatch(t *testing.T) {
	t.Parallel()

	r := newGraphResolver([]string{"/data/loves.tsv", "/data/names.tsv"})

	path, err := r.resolve("loves")
	require.NoError(t, err)
	assert.Equal(t, "/data/loves.tsv", path)
}

func TestGraphResolver_TrailingDigitBaseHandle(t *testing.T) {
	t.Parallel()

	// No file contains the literal substring "g1", but stripping the
	// trailing digit yields base handle "g", which matches "graph.tsv"...
	// so instead construct a file whose basename literally contains "g".
	r := newGraphResolver([]string{"/data/g.tsv"})

	path, err := r.resolve("g1")
	require.NoError(t, err)
	assert.Equal(t, "/data/g.tsv", path)
}

func TestGraphResolver_TrailingDigitsOccupyWholeHandle(t *testing.T) {
	t.Parallel()

	// "123" is entirely digits, so no base-handle stripping applies; with
	// no file named "123" this must fail rather than matching everything.
	r := newGraphResolver([]string{"/data/g1.tsv"})

	_, err := r.resolve("123")
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindUnresolvedHandle, ce.Kind)
}

func TestGraphResolver_MemoizedStable(t *testing.T) {
	t.Parallel()

	r := newGraphResolver([]string{"/data/g1.tsv", "/data/g2.tsv"})

	first, err := r.resolve("g1")
	require.NoError(t, err)

	// Register g2 too, then re-resolve g1 -- the memoized mapping must not
	// change even though more of the file list has since been claimed.
	_, err = r.resolve("g2")
	require.NoError(t, err)

	second, err := r.resolve("g1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGraphResolver_SkipsAlreadyClaimedFiles(t *testing.T) {
	t.Parallel()

	r := newGraphResolver([]string{"/data/loves1.tsv", "/data/loves2.tsv"})

	first, err := r.resolve("loves")
	require.NoError(t, err)
	assert.Equal(t, "/data/loves1.tsv", first)

	// "loves" is already memoized, so a second distinct handle "loves2"
	// must not be forced to re-match the already-claimed first file.
	second, err := r.resolve("loves2")
	require.NoError(t, err)
	assert.Equal(t, "/data/loves2.tsv", second)
}

func TestGraphResolver_Unresolved(t *testing.T) {
	t.Parallel()

	r := newGraphResolver([]string{"/data/g1.tsv"})

	_, err := r.resolve("nonexistent")
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindUnresolvedHandle, ce.Kind)
}
