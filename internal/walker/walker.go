package walker

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"arcdiff/internal/hash"
)

type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

type WalkResult struct {
	Files  []FileInfo
	Errors []error
}

// Walk collects the files under root accepted by include and exclude. A
// read error below root is recorded in the result and the walk goes on; an
// error on root itself fails the walk.
func Walk(root string, include, exclude []string) (*WalkResult, error) {
	f := newFilter(include, exclude)
	result := &WalkResult{
		Files:  []FileInfo{},
		Errors: []error{},
	}

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		switch {
		case err != nil && p == root:
			return err
		case err != nil:
			result.Errors = append(result.Errors, err)
			return nil
		case p == root && d.IsDir():
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}
		if rel == "." {
			rel = d.Name()
		}

		if d.IsDir() {
			if f.excluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if f.excluded(rel, false) || !f.included(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}
		result.Files = append(result.Files, FileInfo{
			Path:    p,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	return result, nil
}

// filter holds lower-cased glob patterns. Archive names come in any case
// (.BSA, Data.Zip), so every match is case-insensitive.
type filter struct {
	include []string
	// names match the base name of files and directories.
	names []string
	// paths hold patterns with a "/" and match the slash-separated
	// relative path.
	paths []string
	// dirs come from patterns ending in "/" and match a directory name at
	// any depth.
	dirs []string
}

func newFilter(include, exclude []string) filter {
	var f filter
	for _, p := range include {
		f.include = append(f.include, strings.ToLower(p))
	}
	for _, p := range exclude {
		p = strings.ToLower(p)
		switch {
		case strings.HasSuffix(p, "/"):
			f.dirs = append(f.dirs, strings.TrimSuffix(p, "/"))
		case strings.Contains(p, "/"):
			f.paths = append(f.paths, p)
		default:
			f.names = append(f.names, p)
		}
	}
	return f
}

func (f filter) excluded(rel string, dir bool) bool {
	rel = strings.ToLower(filepath.ToSlash(rel))
	name := path.Base(rel)
	if dir && matchAny(f.dirs, name) {
		return true
	}
	return matchAny(f.names, name) || matchAny(f.paths, rel)
}

// included reports whether the file base name matches an include pattern.
// No patterns means every file.
func (f filter) included(rel string) bool {
	if len(f.include) == 0 {
		return true
	}
	return matchAny(f.include, strings.ToLower(filepath.Base(rel)))
}

func matchAny(patterns []string, s string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, s); err == nil && ok {
			return true
		}
	}
	return false
}

// Digest returns the xxHash digest of the file.
func (f FileInfo) Digest() (string, error) {
	return hash.HashFile(f.Path)
}
