package compare

import (
	"time"

	"arcdiff/internal/model"
)

// entryPair is the combination of concrete shapes of two entries.
type entryPair int

const (
	fileFile entryPair = iota
	folderFolder
	fileFolder
	folderFile
)

func entryPairOf(l, r model.Entry) (entryPair, bool) {
	switch l.(type) {
	case *model.FileEntry:
		switch r.(type) {
		case *model.FileEntry:
			return fileFile, true
		case *model.FolderEntry:
			return fileFolder, true
		}
	case *model.FolderEntry:
		switch r.(type) {
		case *model.FileEntry:
			return folderFile, true
		case *model.FolderEntry:
			return folderFolder, true
		}
	}
	return 0, false
}

type entryExtract[T any] func(l, r model.Entry) (T, T)

// entryComparator compares one trait of two entries. value applies to any
// entry and serves every pair that has no entry in overrides; a nil
// override marks the pair as undefined.
type entryComparator[T any] struct {
	trait     Trait
	value     func(model.Entry) T
	equal     func(a, b T) bool
	overrides map[entryPair]entryExtract[T]
}

type entryComparer interface {
	compare(l, r model.Entry) TraitDiff
}

func (c entryComparator[T]) resolve(p entryPair) entryExtract[T] {
	if extract, ok := c.overrides[p]; ok {
		return extract
	}
	if c.value == nil {
		return nil
	}
	return func(l, r model.Entry) (T, T) {
		return c.value(l), c.value(r)
	}
}

func (c entryComparator[T]) compare(l, r model.Entry) (d TraitDiff) {
	d.Trait = c.trait
	defer func() {
		if recover() != nil {
			d = TraitDiff{Trait: c.trait}
		}
	}()

	if l == nil || r == nil {
		return d
	}
	p, ok := entryPairOf(l, r)
	if !ok {
		return d
	}
	extract := c.resolve(p)
	if extract == nil {
		return d
	}
	lv, rv := extract(l, r)
	d.Left, d.Right = lv, rv
	d.ComparisonExists = true
	d.DifferenceExists = !c.equal(lv, rv)
	return d
}

// onlyFiles restricts a trait to pairs of files.
func onlyFiles[T any](extract entryExtract[T]) map[entryPair]entryExtract[T] {
	return map[entryPair]entryExtract[T]{
		fileFile:     extract,
		folderFolder: nil,
		fileFolder:   nil,
		folderFile:   nil,
	}
}

// onlyFolders restricts a trait to pairs of folders.
func onlyFolders[T any](extract entryExtract[T]) map[entryPair]entryExtract[T] {
	return map[entryPair]entryExtract[T]{
		fileFile:     nil,
		folderFolder: extract,
		fileFolder:   nil,
		folderFile:   nil,
	}
}

func parentPath(e model.Entry) string {
	if p := e.Parent(); p != nil {
		return p.Path()
	}
	return ""
}

// entryComparers holds one comparator per entry trait.
var entryComparers = []entryComparer{
	entryComparator[model.EntryKind]{
		trait: TraitType,
		value: model.Entry.Kind,
		equal: equal[model.EntryKind],
	},
	entryComparator[string]{
		trait: TraitPath,
		value: model.Entry.Path,
		equal: foldEqual,
	},
	entryComparator[string]{
		trait: TraitParentFolder,
		value: parentPath,
		equal: foldEqual,
	},
	entryComparator[time.Time]{
		trait: TraitLastModified,
		value: model.Entry.LastModified,
		equal: sameInstant,
	},
	entryComparator[int64]{
		trait: TraitSize,
		value: model.Entry.Size,
		equal: equal[int64],
	},
	entryComparator[int64]{
		trait: TraitPackedSize,
		value: model.Entry.PackedSize,
		equal: equal[int64],
	},
	entryComparator[uint64]{
		trait: TraitHash,
		equal: equal[uint64],
		overrides: onlyFiles[uint64](func(l, r model.Entry) (uint64, uint64) {
			return l.(*model.FileEntry).Hash(), r.(*model.FileEntry).Hash()
		}),
	},
	entryComparator[int]{
		trait: TraitFileCount,
		equal: equal[int],
		overrides: onlyFolders[int](func(l, r model.Entry) (int, int) {
			return l.(*model.FolderEntry).FileCount(), r.(*model.FolderEntry).FileCount()
		}),
	},
	entryComparator[int]{
		trait: TraitFolderCount,
		equal: equal[int],
		overrides: onlyFolders[int](func(l, r model.Entry) (int, int) {
			return l.(*model.FolderEntry).FolderCount(), r.(*model.FolderEntry).FolderCount()
		}),
	},
}

// EntryPropertiesDiff compares every entry trait of left and right and
// returns the traits that were compared and found different.
func EntryPropertiesDiff(left, right model.Entry) []TraitDiff {
	diffs := make([]TraitDiff, 0)
	for _, c := range entryComparers {
		if d := c.compare(left, right); d.Differs() {
			diffs = append(diffs, d)
		}
	}
	return diffs
}
