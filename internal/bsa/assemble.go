package bsa

import (
	"time"

	"arcdiff/internal/model"
)

// assemble builds the archive tree. Folders are synthesized for every
// declared folder and for every directory prefix of a file path; BSA
// directories store no folder metadata, so folders carry no size or time.
func assemble(path string, modTime time.Time, streamSize int64, dir *directory) (*model.SingleArchive, error) {
	seen := make(map[string]struct{})
	var folderPaths []string
	addFolder := func(p string) {
		if p == "" || p == "." {
			return
		}
		for _, a := range append(model.Ancestors(p), p) {
			key := model.PathKey(a)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			folderPaths = append(folderPaths, a)
		}
	}
	for _, f := range dir.folders {
		addFolder(f)
	}
	for _, f := range dir.files {
		addFolder(model.ParentPath(f.path))
	}

	entries := make([]model.Entry, 0, len(folderPaths)+len(dir.files))
	for _, p := range folderPaths {
		entries = append(entries, model.NewFolderEntry(p, time.Time{}, 0, 0))
	}
	for _, f := range dir.files {
		entries = append(entries, model.NewFileEntry(f.path, time.Time{}, f.size, 0, f.hash))
	}

	return model.NewSingleArchive(model.SingleArchiveConfig{
		Path:         path,
		Type:         model.Bsa,
		PhysicalSize: streamSize,
		LastModified: modTime,
	}, model.BuildTree(entries))
}
