package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"arcdiff/internal/model"
)

// ReportOptions controls FormatReport.
type ReportOptions struct {
	// Color enables ANSI colors regardless of the terminal.
	Color bool
	// ShowSame lists unchanged entries as well.
	ShowSame bool
}

type palette struct {
	added    *color.Color
	modified *color.Color
	removed  *color.Color
	same     *color.Color
	header   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		added:    color.New(color.FgGreen),
		modified: color.New(color.FgYellow),
		removed:  color.New(color.FgRed),
		same:     color.New(color.Faint),
		header:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.added, p.modified, p.removed, p.same, p.header} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) forState(s ModificationState) (*color.Color, string) {
	switch s {
	case Added:
		return p.added, "+"
	case Modified:
		return p.modified, "~"
	case Removed:
		return p.removed, "-"
	default:
		return p.same, "="
	}
}

// FormatReport renders a comparison result as text. Entries are grouped by
// state and sorted by path within each group.
func FormatReport(result *Result, opts ReportOptions) string {
	p := newPalette(opts.Color)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", p.header.Sprintf("Comparing %s with %s", archivePath(result.Left), archivePath(result.Right)))

	if !result.HasChanges() && !opts.ShowSame {
		b.WriteString("No changes detected.\n")
		return b.String()
	}

	if len(result.Properties) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.header.Sprintf("ARCHIVE (%d properties):", len(result.Properties)))
		for _, d := range result.Properties {
			fmt.Fprintf(&b, "  %s\n", p.modified.Sprint(d.String()))
		}
	}

	groups := []ModificationState{Added, Modified, Removed}
	if opts.ShowSame {
		groups = append(groups, Same)
	}
	for _, state := range groups {
		entries := byState(result.Entries, state)
		if len(entries) == 0 {
			continue
		}
		c, mark := p.forState(state)
		fmt.Fprintf(&b, "\n%s\n", p.header.Sprintf("%s (%d entries):", state, len(entries)))
		for _, e := range entries {
			fmt.Fprintf(&b, "  %s\n", c.Sprintf("%s %s", mark, e.Path()))
			for _, d := range e.Differences {
				fmt.Fprintf(&b, "      %s\n", d)
			}
		}
	}

	fmt.Fprintf(&b, "\nSummary: %d added, %d modified, %d removed, %d unchanged, %d archive properties differ\n",
		result.Count(Added), result.Count(Modified), result.Count(Removed), result.Count(Same), len(result.Properties))

	return b.String()
}

func byState(entries []EntryVersionsComparison, state ModificationState) []EntryVersionsComparison {
	var out []EntryVersionsComparison
	for _, e := range entries {
		if e.State == state {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Path() < out[j].Path()
	})
	return out
}

func archivePath(a model.Archive) string {
	if a == nil {
		return "-"
	}
	return a.Path()
}
