package compare

import (
	"fmt"
	"strings"
	"time"
)

// Trait names a single comparable property of an archive or an entry.
type Trait int

const (
	TraitType Trait = iota
	TraitName
	TraitPath
	TraitParentFolder
	TraitFileCount
	TraitFolderCount
	TraitLastModified
	TraitPackedSize
	TraitPhysicalSize
	TraitSize
	TraitTotalPhysicalSize
	TraitHash
)

var traitNames = [...]string{
	TraitType:              "type",
	TraitName:              "name",
	TraitPath:              "path",
	TraitParentFolder:      "parent folder",
	TraitFileCount:         "file count",
	TraitFolderCount:       "folder count",
	TraitLastModified:      "last modified",
	TraitPackedSize:        "packed size",
	TraitPhysicalSize:      "physical size",
	TraitSize:              "size",
	TraitTotalPhysicalSize: "total physical size",
	TraitHash:              "hash",
}

func (t Trait) String() string {
	if t < 0 || int(t) >= len(traitNames) {
		return fmt.Sprintf("Trait(%d)", int(t))
	}
	return traitNames[t]
}

// TraitDiff is the outcome of comparing one trait of two values.
//
// ComparisonExists is false when either side is missing or the trait is not
// defined for the pair of shapes (a hash between two folders, a total
// physical size between single archives). DifferenceExists is only
// meaningful when ComparisonExists holds. Left and Right keep the extracted
// values.
type TraitDiff struct {
	Trait            Trait
	Left             any
	Right            any
	ComparisonExists bool
	DifferenceExists bool
}

// Differs reports whether the trait was compared and found different.
func (d TraitDiff) Differs() bool {
	return d.ComparisonExists && d.DifferenceExists
}

func (d TraitDiff) String() string {
	return fmt.Sprintf("%s: %s → %s", d.Trait, FormatValue(d.Left), FormatValue(d.Right))
}

// FormatValue renders an extracted trait value for display.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case time.Time:
		if v.IsZero() {
			return "-"
		}
		return v.Format(time.DateTime)
	case uint64:
		return fmt.Sprintf("%08X", v)
	case string:
		if v == "" {
			return `""`
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

// equality policies

func equal[T comparable](a, b T) bool { return a == b }

func sameInstant(a, b time.Time) bool { return a.Equal(b) }

func foldEqual(a, b string) bool { return strings.EqualFold(a, b) }
