package compare

import (
	"arcdiff/internal/model"
)

// Result holds the full comparison of two archives.
type Result struct {
	Left       model.Archive
	Right      model.Archive
	Properties []TraitDiff
	Entries    []EntryVersionsComparison
}

// Count returns the number of entries in the given state.
func (r *Result) Count(state ModificationState) int {
	n := 0
	for _, e := range r.Entries {
		if e.State == state {
			n++
		}
	}
	return n
}

// HasChanges reports whether any archive property or entry differs.
func (r *Result) HasChanges() bool {
	if len(r.Properties) > 0 {
		return true
	}
	for _, e := range r.Entries {
		if e.State != Same {
			return true
		}
	}
	return false
}

// Diff compares two archives at the property level and at the entry level.
// Neither archive is modified.
func Diff(left, right model.Archive) *Result {
	return &Result{
		Left:       left,
		Right:      right,
		Properties: ArchivePropertiesDiff(left, right),
		Entries:    EntriesDiff(left, right),
	}
}
