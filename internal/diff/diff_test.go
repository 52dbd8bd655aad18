package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameStatus_Added(t *testing.T) {
	records := ParseNameStatus([]byte("A\x00p\x00"))
	require.Len(t, records, 1)
	assert.Equal(t, Added, records[0].Status)
	assert.Equal(t, "p", records[0].Path)
}

func TestParseNameStatus_Renamed(t *testing.T) {
	records := ParseNameStatus([]byte("Rxx\x00a\x00b\x00"))
	require.Len(t, records, 1)
	assert.Equal(t, Renamed, records[0].Status)
	assert.Equal(t, "a", records[0].Path)
	assert.Equal(t, "b", records[0].NewPath)
}

func TestParseNameStatus_Copied(t *testing.T) {
	records := ParseNameStatus([]byte("C100\x00a\x00b\x00"))
	require.Len(t, records, 1)
	assert.Equal(t, Copied, records[0].Status)
}

func TestParseNameStatus_Modified(t *testing.T) {
	records := ParseNameStatus([]byte("M\x00x.json\x00"))
	require.Len(t, records, 1)
	assert.Equal(t, Modified, records[0].Status)
}

func TestParseNameStatus_Deleted(t *testing.T) {
	records := ParseNameStatus([]byte("D\x00x.json\x00"))
	require.Len(t, records, 1)
	assert.Equal(t, Deleted, records[0].Status)
}

func TestParseNameStatus_UnknownStatusSkipped(t *testing.T) {
	records := ParseNameStatus([]byte("T\x00x.json\x00A\x00y.json\x00"))
	require.Len(t, records, 1)
	assert.Equal(t, Added, records[0].Status)
	assert.Equal(t, "y.json", records[0].Path)
}

func TestParseNameStatus_TrailingGarbageNoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		records := ParseNameStatus([]byte("A\x00"))
		assert.Empty(t, records)
	})
}

func TestParseNameStatus_Empty(t *testing.T) {
	assert.Empty(t, ParseNameStatus(nil))
	assert.Empty(t, ParseNameStatus([]byte{}))
}

func TestParseNameStatus_MultipleRecords(t *testing.T) {
	raw := []byte("A\x00x.json\x00M\x00x.json\x00Ryy\x00x.json\x00y.json\x00")
	records := ParseNameStatus(raw)
	require.Len(t, records, 3)
	assert.Equal(t, Added, records[0].Status)
	assert.Equal(t, Modified, records[1].Status)
	assert.Equal(t, Renamed, records[2].Status)
	assert.Equal(t, "x.json", records[2].Path)
	assert.Equal(t, "y.json", records[2].NewPath)
}
