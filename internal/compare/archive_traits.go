package compare

import (
	"time"

	"arcdiff/internal/model"
)

// archivePair is the combination of concrete shapes of two archives.
type archivePair int

const (
	singleSingle archivePair = iota
	splitSplit
	singleSplit
	splitSingle
)

func archivePairOf(l, r model.Archive) (archivePair, bool) {
	switch l.(type) {
	case *model.SingleArchive:
		switch r.(type) {
		case *model.SingleArchive:
			return singleSingle, true
		case *model.SplitArchive:
			return singleSplit, true
		}
	case *model.SplitArchive:
		switch r.(type) {
		case *model.SingleArchive:
			return splitSingle, true
		case *model.SplitArchive:
			return splitSplit, true
		}
	}
	return 0, false
}

type archiveExtract[T any] func(l, r model.Archive) (T, T)

// archiveComparator compares one trait of two archives.
//
// value extracts the trait from a single archive and defines the canonical
// (Single, Single) comparison. Other pairs fall back to it: split sides are
// replaced by their nested archive. An entry in overrides replaces the
// resolution for its pair; a nil entry marks the pair as undefined.
type archiveComparator[T any] struct {
	trait     Trait
	value     func(*model.SingleArchive) T
	equal     func(a, b T) bool
	overrides map[archivePair]archiveExtract[T]
}

type archiveComparer interface {
	compare(l, r model.Archive) TraitDiff
}

func (c archiveComparator[T]) resolve(p archivePair) archiveExtract[T] {
	if extract, ok := c.overrides[p]; ok {
		return extract
	}
	canonical := c.resolveCanonical()
	if canonical == nil {
		return nil
	}
	switch p {
	case singleSingle:
		return canonical
	case splitSplit:
		return func(l, r model.Archive) (T, T) {
			return canonical(nested(l), nested(r))
		}
	case singleSplit:
		return func(l, r model.Archive) (T, T) {
			return canonical(l, nested(r))
		}
	case splitSingle:
		return func(l, r model.Archive) (T, T) {
			return canonical(nested(l), r)
		}
	}
	return nil
}

func (c archiveComparator[T]) resolveCanonical() archiveExtract[T] {
	if extract, ok := c.overrides[singleSingle]; ok {
		return extract
	}
	return func(l, r model.Archive) (T, T) {
		return c.value(l.(*model.SingleArchive)), c.value(r.(*model.SingleArchive))
	}
}

func (c archiveComparator[T]) compare(l, r model.Archive) (d TraitDiff) {
	d.Trait = c.trait
	defer func() {
		if recover() != nil {
			d = TraitDiff{Trait: c.trait}
		}
	}()

	if l == nil || r == nil {
		return d
	}
	p, ok := archivePairOf(l, r)
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

func nested(a model.Archive) model.Archive {
	return a.(*model.SplitArchive).Nested()
}

// archiveComparers holds one comparator per archive trait.
var archiveComparers = []archiveComparer{
	archiveComparator[model.ArchiveType]{
		trait: TraitType,
		value: (*model.SingleArchive).Type,
		equal: equal[model.ArchiveType],
	},
	archiveComparator[string]{
		trait: TraitName,
		value: (*model.SingleArchive).Name,
		equal: foldEqual,
	},
	archiveComparator[int]{
		trait: TraitFileCount,
		value: (*model.SingleArchive).FileCount,
		equal: equal[int],
	},
	archiveComparator[int]{
		trait: TraitFolderCount,
		value: (*model.SingleArchive).FolderCount,
		equal: equal[int],
	},
	archiveComparator[time.Time]{
		trait: TraitLastModified,
		value: (*model.SingleArchive).LastModified,
		equal: sameInstant,
	},
	archiveComparator[int64]{
		trait: TraitPackedSize,
		value: (*model.SingleArchive).PackedSize,
		equal: equal[int64],
	},
	archiveComparator[int64]{
		trait: TraitPhysicalSize,
		value: (*model.SingleArchive).PhysicalSize,
		equal: equal[int64],
	},
	archiveComparator[int64]{
		trait: TraitSize,
		value: (*model.SingleArchive).Size,
		equal: equal[int64],
	},
	archiveComparator[int64]{
		trait: TraitTotalPhysicalSize,
		equal: equal[int64],
		overrides: map[archivePair]archiveExtract[int64]{
			singleSingle: nil,
			singleSplit:  nil,
			splitSingle:  nil,
			splitSplit: func(l, r model.Archive) (int64, int64) {
				return l.(*model.SplitArchive).TotalPhysicalSize(), r.(*model.SplitArchive).TotalPhysicalSize()
			},
		},
	},
}

// ArchivePropertiesDiff compares every archive trait of left and right and
// returns the traits that were compared and found different.
func ArchivePropertiesDiff(left, right model.Archive) []TraitDiff {
	diffs := make([]TraitDiff, 0)
	for _, c := range archiveComparers {
		if d := c.compare(left, right); d.Differs() {
			diffs = append(diffs, d)
		}
	}
	return diffs
}
