package compare

import (
	"fmt"

	"arcdiff/internal/model"
)

// ModificationState classifies an entry after matching two trees.
type ModificationState int

const (
	Same ModificationState = iota
	Modified
	Added
	Removed
)

func (s ModificationState) String() string {
	switch s {
	case Same:
		return "SAME"
	case Modified:
		return "MODIFIED"
	case Added:
		return "ADDED"
	case Removed:
		return "REMOVED"
	}
	return fmt.Sprintf("ModificationState(%d)", int(s))
}

// EntryVersionsComparison is the outcome for one entry path. Left is nil for
// Added entries, Right is nil for Removed ones. Differences is only set for
// Modified entries.
type EntryVersionsComparison struct {
	State       ModificationState
	Left        model.Entry
	Right       model.Entry
	Differences []TraitDiff
}

// Path returns the path of whichever side is present, preferring the left.
func (c EntryVersionsComparison) Path() string {
	if c.Left != nil {
		return c.Left.Path()
	}
	if c.Right != nil {
		return c.Right.Path()
	}
	return ""
}

// EntriesDiff matches the flattened entry trees of left and right by path
// key. Each left entry consumes the first unmatched right entry with the same
// key; duplicates beyond that stay unmatched. Results follow left order, then
// the unmatched right entries in right order.
func EntriesDiff(left, right model.Archive) []EntryVersionsComparison {
	leftEntries := contents(left)
	rightEntries := contents(right)

	candidates := make(map[string][]int, len(rightEntries))
	for i, e := range rightEntries {
		key := model.PathKey(e.Path())
		candidates[key] = append(candidates[key], i)
	}
	matched := make([]bool, len(rightEntries))

	results := make([]EntryVersionsComparison, 0, len(leftEntries)+len(rightEntries))
	for _, l := range leftEntries {
		key := model.PathKey(l.Path())
		queue := candidates[key]
		if len(queue) == 0 {
			results = append(results, EntryVersionsComparison{State: Removed, Left: l})
			continue
		}
		idx := queue[0]
		candidates[key] = queue[1:]
		matched[idx] = true

		r := rightEntries[idx]
		diffs := EntryPropertiesDiff(l, r)
		state := Same
		if len(diffs) > 0 {
			state = Modified
		}
		results = append(results, EntryVersionsComparison{
			State:       state,
			Left:        l,
			Right:       r,
			Differences: diffs,
		})
	}

	for i, r := range rightEntries {
		if !matched[i] {
			results = append(results, EntryVersionsComparison{State: Added, Right: r})
		}
	}
	return results
}

func contents(a model.Archive) []model.Entry {
	if a == nil {
		return nil
	}
	return model.Flatten(a.Contents())
}
