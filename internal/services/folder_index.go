package services

import "github.com/filmdesk/backend/internal/models"

// FolderIndex maps folder names to their frames in insertion order. It is
// derived from a store snapshot on every query and holds no state of its
// own, so it can never go stale.
type FolderIndex struct {
	// Folders in order of first appearance, for stable listings.
	Order []string
	// Frames per folder, insertion order preserved.
	Groups map[string][]models.Frame
}

// BuildFolderIndex groups a store snapshot by folder. Frames are expected in
// store insertion order (ascending id) and keep that order within each group.
func BuildFolderIndex(frames []models.Frame) FolderIndex {
	idx := FolderIndex{Groups: make(map[string][]models.Frame)}
	for _, f := range frames {
		if _, seen := idx.Groups[f.Folder]; !seen {
			idx.Order = append(idx.Order, f.Folder)
		}
		idx.Groups[f.Folder] = append(idx.Groups[f.Folder], f)
	}
	return idx
}
