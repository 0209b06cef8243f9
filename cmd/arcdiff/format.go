package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"arcdiff/internal/compare"
	"arcdiff/internal/config"
	"arcdiff/internal/model"
	"arcdiff/internal/snapshot"
)

func newTabwriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
}

// colorEnabled resolves a color mode for output written to w.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type treePrinter struct {
	w      io.Writer
	title  *color.Color
	folder *color.Color
	file   *color.Color
	faint  *color.Color
}

func newTreePrinter(w io.Writer, enabled bool) *treePrinter {
	p := &treePrinter{
		w:      w,
		title:  color.New(color.Bold),
		folder: color.New(color.FgBlue, color.Bold),
		file:   color.New(color.Reset),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.title, p.folder, p.file, p.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *treePrinter) archiveHeader(a model.Archive) {
	switch a := a.(type) {
	case *model.SplitArchive:
		nested := a.Nested()
		fmt.Fprintf(p.w, "%s [%s] %s of %s in volumes, holds %s [%s]\n",
			p.title.Sprint(a.Path()), a.Type(), snapshot.FormatSize(a.PhysicalSize()), snapshot.FormatSize(a.TotalPhysicalSize()),
			nested.Path(), nested.Type())
		p.singleSummary(nested)
	case *model.SingleArchive:
		fmt.Fprintf(p.w, "%s [%s] %s\n", p.title.Sprint(a.Path()), a.Type(), snapshot.FormatSize(a.PhysicalSize()))
		p.singleSummary(a)
	}
}

func (p *treePrinter) singleSummary(a *model.SingleArchive) {
	fmt.Fprintf(p.w, "%s\n", p.faint.Sprintf("%d files, %d folders, %s unpacked, %s packed, modified %s",
		a.FileCount(), a.FolderCount(), snapshot.FormatSize(a.Size()), snapshot.FormatSize(a.PackedSize()),
		compare.FormatValue(a.LastModified())))
}

// entries prints the tree below roots with box-drawing indentation.
func (p *treePrinter) entries(roots []model.Entry, prefix string) {
	for i, e := range roots {
		branch, indent := "├── ", "│   "
		if i == len(roots)-1 {
			branch, indent = "└── ", "    "
		}
		switch e := e.(type) {
		case *model.FolderEntry:
			fmt.Fprintf(p.w, "%s%s%s\n", prefix, branch, p.folder.Sprint(e.Name()+model.Separator))
			p.entries(e.Contents(), prefix+indent)
		case *model.FileEntry:
			details := fmt.Sprintf("%s  %s", snapshot.FormatSize(e.Size()), compare.FormatValue(e.LastModified()))
			if e.Hash() != model.NoHash {
				details += "  " + compare.FormatValue(e.Hash())
			}
			fmt.Fprintf(p.w, "%s%s%s  %s\n", prefix, branch, p.file.Sprint(e.Name()), p.faint.Sprint(details))
		}
	}
}
