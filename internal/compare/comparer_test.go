package compare

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcdiff/internal/model"
)

var (
	t1 = time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	t2 = time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)
)

func single(t *testing.T, path string, roots ...model.Entry) *model.SingleArchive {
	t.Helper()
	a, err := model.NewSingleArchive(model.SingleArchiveConfig{Path: path, Type: model.Zip, PhysicalSize: 100}, roots)
	require.NoError(t, err)
	return a
}

func sampleTree() []model.Entry {
	return []model.Entry{
		model.NewFolderEntry("docs", t1, 0, 0,
			model.NewFileEntry(`docs\a.txt`, t1, 10, 5, 0xAAAA),
			model.NewFolderEntry(`docs\img`, t1, 0, 0,
				model.NewFileEntry(`docs\img\b.png`, t1, 20, 20, 0xBBBB),
			),
		),
		model.NewFileEntry("readme.txt", t1, 3, 3, 0xCCCC),
	}
}

func states(results []EntryVersionsComparison) map[ModificationState][]string {
	out := make(map[ModificationState][]string)
	for _, r := range results {
		out[r.State] = append(out[r.State], r.Path())
	}
	return out
}

func traitOf(diffs []TraitDiff) []Trait {
	var out []Trait
	for _, d := range diffs {
		out = append(out, d.Trait)
	}
	return out
}

func compareEntryTrait(t *testing.T, trait Trait, l, r model.Entry) TraitDiff {
	t.Helper()
	for _, c := range entryComparers {
		if d := c.compare(l, r); d.Trait == trait {
			return d
		}
	}
	t.Fatalf("no entry comparator for %s", trait)
	return TraitDiff{}
}

func compareArchiveTrait(t *testing.T, trait Trait, l, r model.Archive) TraitDiff {
	t.Helper()
	for _, c := range archiveComparers {
		if d := c.compare(l, r); d.Trait == trait {
			return d
		}
	}
	t.Fatalf("no archive comparator for %s", trait)
	return TraitDiff{}
}

func TestEntriesDiff_IdenticalTrees(t *testing.T) {
	left := single(t, "a.zip", sampleTree()...)
	right := single(t, "a.zip", sampleTree()...)

	results := EntriesDiff(left, right)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, Same, r.State, r.Path())
		assert.Empty(t, r.Differences)
	}

	result := Diff(left, right)
	assert.False(t, result.HasChanges())
	assert.Equal(t, 5, result.Count(Same))
}

func TestEntriesDiff_AddedAndRemoved(t *testing.T) {
	left := single(t, "a.zip", model.NewFileEntry("x.txt", t1, 1, 1, 1))
	right := single(t, "a.zip", model.NewFileEntry("y.txt", t1, 1, 1, 1))

	results := EntriesDiff(left, right)
	require.Len(t, results, 2)

	assert.Equal(t, Removed, results[0].State)
	assert.Equal(t, "x.txt", results[0].Path())
	assert.Nil(t, results[0].Right)
	assert.Empty(t, results[0].Differences)

	assert.Equal(t, Added, results[1].State)
	assert.Equal(t, "y.txt", results[1].Path())
	assert.Nil(t, results[1].Left)
}

func TestEntriesDiff_LastModifiedOnly(t *testing.T) {
	left := single(t, "a.zip", model.NewFileEntry("a.txt", t1, 10, 10, 7))
	right := single(t, "a.zip", model.NewFileEntry("a.txt", t2, 10, 10, 7))

	results := EntriesDiff(left, right)
	require.Len(t, results, 1)
	assert.Equal(t, Modified, results[0].State)
	require.Len(t, results[0].Differences, 1)

	d := results[0].Differences[0]
	assert.Equal(t, TraitLastModified, d.Trait)
	assert.Equal(t, t1, d.Left)
	assert.Equal(t, t2, d.Right)
}

func TestEntriesDiff_CaseInsensitiveMatch(t *testing.T) {
	left := single(t, "a.zip", model.NewFileEntry(`Docs\A.txt`, t1, 1, 1, 1))
	right := single(t, "a.zip", model.NewFileEntry(`docs/a.txt`, t1, 1, 1, 1))

	results := EntriesDiff(left, right)
	require.Len(t, results, 1)
	assert.Equal(t, Same, results[0].State)
	assert.Empty(t, results[0].Differences)
	assert.Equal(t, `Docs\A.txt`, results[0].Path())
}

func TestEntryPath_ComparedIgnoringCase(t *testing.T) {
	tests := []struct {
		left, right string
		differs     bool
	}{
		{`meshes\Armor\Helm.nif`, `MESHES\armor\helm.NIF`, false},
		{`meshes\armor\helm.nif`, `meshes/armor/helm.nif`, false},
		{`meshes\armor\helm.nif`, `meshes\armor\boots.nif`, true},
	}
	for _, tt := range tests {
		t.Run(tt.left+" vs "+tt.right, func(t *testing.T) {
			l := model.NewFileEntry(tt.left, t1, 1, 1, 1)
			r := model.NewFileEntry(tt.right, t1, 1, 1, 1)

			d := compareEntryTrait(t, TraitPath, l, r)
			assert.True(t, d.ComparisonExists)
			assert.Equal(t, tt.differs, d.DifferenceExists)
			assert.Equal(t, l.Path(), d.Left)
		})
	}
}

func TestEntriesDiff_DuplicatePathsFirstMatchWins(t *testing.T) {
	first := model.NewFileEntry("a.txt", t1, 1, 1, 1)
	second := model.NewFileEntry("a.txt", t1, 2, 2, 2)
	left := single(t, "a.zip", first, second)
	right := single(t, "a.zip", model.NewFileEntry("a.txt", t1, 1, 1, 1))

	results := EntriesDiff(left, right)
	require.Len(t, results, 2)
	assert.Equal(t, Same, results[0].State)
	assert.Same(t, first, results[0].Left)
	assert.Equal(t, Removed, results[1].State)
	assert.Same(t, second, results[1].Left)
}

func TestEntriesDiff_OrderLeftThenUnmatchedRight(t *testing.T) {
	left := single(t, "a.zip",
		model.NewFileEntry("b", t1, 1, 1, 1),
		model.NewFileEntry("a", t1, 1, 1, 1),
	)
	right := single(t, "a.zip",
		model.NewFileEntry("z", t1, 1, 1, 1),
		model.NewFileEntry("a", t1, 1, 1, 1),
		model.NewFileEntry("c", t1, 1, 1, 1),
	)

	var got []string
	for _, r := range EntriesDiff(left, right) {
		got = append(got, r.State.String()+" "+r.Path())
	}
	assert.Equal(t, []string{"REMOVED b", "SAME a", "ADDED z", "ADDED c"}, got)
}

func TestEntriesDiff_NilArchive(t *testing.T) {
	right := single(t, "a.zip", sampleTree()...)

	got := states(EntriesDiff(nil, right))
	assert.Len(t, got[Added], 5)
	assert.Empty(t, got[Removed])
}

func TestEntryPropertiesDiff_FileAgainstFolder(t *testing.T) {
	file := model.NewFileEntry("x", t1, 0, 0, 9)
	folder := model.NewFolderEntry("x", t1, 0, 0)

	diffs := EntryPropertiesDiff(file, folder)
	assert.Equal(t, []Trait{TraitType}, traitOf(diffs))
	assert.Equal(t, model.FileKind, diffs[0].Left)
	assert.Equal(t, model.FolderKind, diffs[0].Right)

	assert.False(t, compareEntryTrait(t, TraitHash, file, folder).ComparisonExists)
	assert.False(t, compareEntryTrait(t, TraitFileCount, file, folder).ComparisonExists)
	assert.True(t, compareEntryTrait(t, TraitSize, file, folder).ComparisonExists)
}

func TestEntryPropertiesDiff_UndefinedTraits(t *testing.T) {
	a := model.NewFolderEntry("f", t1, 0, 0, model.NewFileEntry(`f\1`, t1, 0, 0, 0))
	b := model.NewFolderEntry("f", t1, 0, 0)

	assert.False(t, compareEntryTrait(t, TraitHash, a, b).ComparisonExists)

	d := compareEntryTrait(t, TraitFileCount, a, b)
	assert.True(t, d.ComparisonExists)
	assert.True(t, d.DifferenceExists)
	assert.Equal(t, 1, d.Left)
	assert.Equal(t, 0, d.Right)

	fa := model.NewFileEntry("x", t1, 0, 0, 1)
	fb := model.NewFileEntry("x", t1, 0, 0, 1)
	assert.False(t, compareEntryTrait(t, TraitFolderCount, fa, fb).ComparisonExists)
}

func TestEntryPropertiesDiff_ParentFolderIgnoresCase(t *testing.T) {
	l := model.NewFolderEntry("Docs", t1, 0, 0, model.NewFileEntry(`Docs\a`, t1, 0, 0, 1))
	r := model.NewFolderEntry("docs", t1, 0, 0, model.NewFileEntry(`docs\a`, t1, 0, 0, 1))

	d := compareEntryTrait(t, TraitParentFolder, l.Contents()[0], r.Contents()[0])
	assert.True(t, d.ComparisonExists)
	assert.False(t, d.DifferenceExists)
}

func TestComparators_NilSides(t *testing.T) {
	e := model.NewFileEntry("x", t1, 1, 1, 1)
	for _, c := range entryComparers {
		assert.False(t, c.compare(nil, e).ComparisonExists)
		assert.False(t, c.compare(e, nil).ComparisonExists)
	}
	assert.Empty(t, EntryPropertiesDiff(nil, e))

	a := single(t, "a.zip")
	for _, c := range archiveComparers {
		assert.False(t, c.compare(a, nil).ComparisonExists)
		assert.False(t, c.compare(nil, a).ComparisonExists)
	}
	assert.Empty(t, ArchivePropertiesDiff(nil, a))
}

func TestComparators_PanicMeansNoComparison(t *testing.T) {
	var broken *model.FileEntry
	ok := model.NewFileEntry("x", t1, 1, 1, 1)

	d := compareEntryTrait(t, TraitPath, broken, ok)
	assert.False(t, d.ComparisonExists)
	assert.Nil(t, d.Left)

	assert.NotPanics(t, func() {
		EntryPropertiesDiff(broken, ok)
	})
	assert.NotPanics(t, func() {
		var split *model.SplitArchive
		ArchivePropertiesDiff(split, single(t, "a.zip"))
	})
}

func TestArchivePropertiesDiff_Singles(t *testing.T) {
	left := single(t, "a.zip", model.NewFileEntry("x", t1, 10, 4, 1))
	right, err := model.NewSingleArchive(model.SingleArchiveConfig{Path: `other\A.ZIP`, Type: model.SevenZip, PhysicalSize: 100}, []model.Entry{
		model.NewFileEntry("x", t1, 12, 4, 1),
	})
	require.NoError(t, err)

	diffs := ArchivePropertiesDiff(left, right)
	assert.Equal(t, []Trait{TraitType, TraitSize}, traitOf(diffs))
	assert.False(t, compareArchiveTrait(t, TraitTotalPhysicalSize, left, right).ComparisonExists)
}

func TestArchivePropertiesDiff_Splits(t *testing.T) {
	split := func(total int64) *model.SplitArchive {
		nested := single(t, "a.zip", model.NewFileEntry("x", t1, 1, 1, 1))
		s, err := model.NewSplitArchive(model.SplitArchiveConfig{
			Path: "a.zip.001", Type: model.Split, PhysicalSize: 50, TotalPhysicalSize: total,
		}, nested)
		require.NoError(t, err)
		return s
	}

	diffs := ArchivePropertiesDiff(split(100), split(150))
	require.Len(t, diffs, 1)
	assert.Equal(t, TraitTotalPhysicalSize, diffs[0].Trait)
	assert.Equal(t, int64(100), diffs[0].Left)
	assert.Equal(t, int64(150), diffs[0].Right)
}

func TestArchivePropertiesDiff_SingleAgainstSplit(t *testing.T) {
	flat := single(t, "a.zip", model.NewFileEntry("x", t1, 1, 1, 1))
	nested := single(t, "a.zip", model.NewFileEntry("x", t1, 1, 1, 1), model.NewFileEntry("y", t1, 1, 1, 1))
	split, err := model.NewSplitArchive(model.SplitArchiveConfig{
		Path: "a.zip.001", Type: model.Split, PhysicalSize: 50,
	}, nested)
	require.NoError(t, err)

	diffs := ArchivePropertiesDiff(flat, split)
	assert.Equal(t, []Trait{TraitFileCount, TraitPackedSize, TraitSize}, traitOf(diffs))

	name := compareArchiveTrait(t, TraitName, flat, split)
	assert.True(t, name.ComparisonExists)
	assert.Equal(t, "a.zip", name.Right)
	assert.False(t, compareArchiveTrait(t, TraitTotalPhysicalSize, split, flat).ComparisonExists)
}

func TestFormatReport(t *testing.T) {
	left := single(t, "a.zip",
		model.NewFileEntry("x.txt", t1, 1, 1, 1),
		model.NewFileEntry("same.txt", t1, 1, 1, 1),
		model.NewFileEntry("mod.txt", t1, 1, 1, 1),
	)
	right := single(t, "b.zip",
		model.NewFileEntry("y.txt", t1, 1, 1, 1),
		model.NewFileEntry("same.txt", t1, 1, 1, 1),
		model.NewFileEntry("mod.txt", t1, 2, 1, 1),
	)

	report := FormatReport(Diff(left, right), ReportOptions{})
	assert.Contains(t, report, "Comparing a.zip with b.zip")
	assert.Contains(t, report, "ARCHIVE (2 properties):")
	assert.Contains(t, report, "name: a.zip → b.zip")
	assert.Contains(t, report, "  + y.txt")
	assert.Contains(t, report, "  - x.txt")
	assert.Contains(t, report, "  ~ mod.txt")
	assert.Contains(t, report, "size: 1 → 2")
	assert.NotContains(t, report, "same.txt")
	assert.NotContains(t, report, "\x1b[")
	assert.True(t, strings.HasSuffix(report, "Summary: 1 added, 1 modified, 1 removed, 1 unchanged, 2 archive properties differ\n"))

	withSame := FormatReport(Diff(left, right), ReportOptions{ShowSame: true, Color: true})
	assert.Contains(t, withSame, "same.txt")
	assert.Contains(t, withSame, "\x1b[")
}

func TestFormatReport_NoChanges(t *testing.T) {
	a := single(t, "a.zip", sampleTree()...)
	report := FormatReport(Diff(a, single(t, "a.zip", sampleTree()...)), ReportOptions{})
	assert.Equal(t, "Comparing a.zip with a.zip\nNo changes detected.\n", report)
}
