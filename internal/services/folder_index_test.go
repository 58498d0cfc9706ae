package services

import (
	"testing"

	"github.com/filmdesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFolderIndex_GroupsByFolder(t *testing.T) {
	frames := []models.Frame{
		{ID: 1, Name: "a.png", Folder: "A"},
		{ID: 2, Name: "b.png", Folder: "B"},
		{ID: 3, Name: "c.png", Folder: "A"},
		{ID: 4, Name: "d.png", Folder: "processed_A"},
	}

	idx := BuildFolderIndex(frames)

	assert.Equal(t, []string{"A", "B", "processed_A"}, idx.Order)
	require.Len(t, idx.Groups["A"], 2)
	assert.Equal(t, uint(1), idx.Groups["A"][0].ID)
	assert.Equal(t, uint(3), idx.Groups["A"][1].ID, "insertion order preserved within a folder")
	assert.Len(t, idx.Groups["B"], 1)
	assert.Len(t, idx.Groups["processed_A"], 1)
}

func TestBuildFolderIndex_Empty(t *testing.T) {
	idx := BuildFolderIndex(nil)
	assert.Empty(t, idx.Order)
	assert.Empty(t, idx.Groups)
}

func TestBuildFolderIndex_IsPure(t *testing.T) {
	frames := []models.Frame{
		{ID: 1, Folder: "A"},
		{ID: 2, Folder: "A"},
	}
	first := BuildFolderIndex(frames)
	second := BuildFolderIndex(frames)
	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, len(first.Groups["A"]), len(second.Groups["A"]))
}
