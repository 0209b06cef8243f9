// Package snapshot saves archive models to JSON or YAML files and loads them
// back through the model constructors.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"arcdiff/internal/model"
)

const generator = "arcdiff"

var ErrUnknownKind = errors.New("unknown snapshot kind")

// Format is a snapshot encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFor picks the encoding from the file extension. Anything other than
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

const (
	kindSingle = "single"
	kindSplit  = "split"
	kindFile   = "file"
	kindFolder = "folder"
)

type Document struct {
	Generator string     `json:"generator" yaml:"generator"`
	Created   time.Time  `json:"created" yaml:"created"`
	Size      string     `json:"size" yaml:"size"`
	Archives  []*Archive `json:"archives" yaml:"archives"`
}

type Archive struct {
	Kind              string            `json:"kind" yaml:"kind"`
	Path              string            `json:"path" yaml:"path"`
	Type              model.ArchiveType `json:"type" yaml:"type"`
	PhysicalSize      int64             `json:"physical_size" yaml:"physical_size"`
	LastModified      *time.Time        `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	Size              int64             `json:"size,omitempty" yaml:"size,omitempty"`
	PackedSize        int64             `json:"packed_size,omitempty" yaml:"packed_size,omitempty"`
	TotalPhysicalSize int64             `json:"total_physical_size,omitempty" yaml:"total_physical_size,omitempty"`
	Fingerprint       string            `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Nested            *Archive          `json:"nested,omitempty" yaml:"nested,omitempty"`
	Entries           []*Entry          `json:"entries,omitempty" yaml:"entries,omitempty"`
}

type Entry struct {
	Kind         string     `json:"kind" yaml:"kind"`
	Path         string     `json:"path" yaml:"path"`
	LastModified *time.Time `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	Size         int64      `json:"size" yaml:"size"`
	PackedSize   int64      `json:"packed_size" yaml:"packed_size"`
	Hash         uint64     `json:"hash,omitempty" yaml:"hash,omitempty"`
	Contents     []*Entry   `json:"contents,omitempty" yaml:"contents,omitempty"`
}

// FormatSize renders a byte count with a binary unit (B, KB, MB, GB).
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

func timeOf(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// NewDocument describes archives. Fingerprints are attached by the caller.
func NewDocument(archives []model.Archive) *Document {
	doc := &Document{
		Generator: generator,
		Created:   time.Now().UTC(),
		Archives:  make([]*Archive, 0, len(archives)),
	}
	var total int64
	for _, a := range archives {
		doc.Archives = append(doc.Archives, fromArchive(a))
		total += a.PhysicalSize()
	}
	doc.Size = FormatSize(total)
	return doc
}

func fromArchive(a model.Archive) *Archive {
	switch a := a.(type) {
	case *model.SplitArchive:
		return &Archive{
			Kind:              kindSplit,
			Path:              a.Path(),
			Type:              a.Type(),
			PhysicalSize:      a.PhysicalSize(),
			LastModified:      optionalTime(a.LastModified()),
			TotalPhysicalSize: a.TotalPhysicalSize(),
			Nested:            fromArchive(a.Nested()),
		}
	case *model.SingleArchive:
		return &Archive{
			Kind:         kindSingle,
			Path:         a.Path(),
			Type:         a.Type(),
			PhysicalSize: a.PhysicalSize(),
			LastModified: optionalTime(a.LastModified()),
			Size:         a.Size(),
			PackedSize:   a.PackedSize(),
			Entries:      fromEntries(a.Contents()),
		}
	}
	return nil
}

func fromEntries(entries []model.Entry) []*Entry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		doc := &Entry{
			Path:         e.Path(),
			LastModified: optionalTime(e.LastModified()),
			Size:         e.Size(),
			PackedSize:   e.PackedSize(),
		}
		switch e := e.(type) {
		case *model.FileEntry:
			doc.Kind = kindFile
			doc.Hash = e.Hash()
		case *model.FolderEntry:
			doc.Kind = kindFolder
			doc.Contents = fromEntries(e.Contents())
		}
		out = append(out, doc)
	}
	return out
}

// Model rebuilds the archives described by the document.
func (d *Document) Model() ([]model.Archive, error) {
	out := make([]model.Archive, 0, len(d.Archives))
	for i, a := range d.Archives {
		arc, err := a.model()
		if err != nil {
			return nil, fmt.Errorf("archive %d: %w", i, err)
		}
		out = append(out, arc)
	}
	return out, nil
}

func (a *Archive) model() (model.Archive, error) {
	switch a.Kind {
	case kindSingle, "":
		return a.single()
	case kindSplit:
		if a.Nested == nil {
			return nil, fmt.Errorf("%s: %w", a.Path, model.ErrNoNestedArchive)
		}
		nested, err := a.Nested.single()
		if err != nil {
			return nil, fmt.Errorf("%s: nested: %w", a.Path, err)
		}
		return model.NewSplitArchive(model.SplitArchiveConfig{
			Path:              a.Path,
			Type:              a.Type,
			PhysicalSize:      a.PhysicalSize,
			LastModified:      timeOf(a.LastModified),
			TotalPhysicalSize: a.TotalPhysicalSize,
		}, nested)
	}
	return nil, fmt.Errorf("%s: %w %q", a.Path, ErrUnknownKind, a.Kind)
}

func (a *Archive) single() (*model.SingleArchive, error) {
	entries, err := toEntries(a.Entries)
	if err != nil {
		return nil, err
	}
	size, packed := a.Size, a.PackedSize
	return model.NewSingleArchive(model.SingleArchiveConfig{
		Path:         a.Path,
		Type:         a.Type,
		PhysicalSize: a.PhysicalSize,
		LastModified: timeOf(a.LastModified),
		Size:         &size,
		PackedSize:   &packed,
	}, entries)
}

func toEntries(docs []*Entry) ([]model.Entry, error) {
	out := make([]model.Entry, 0, len(docs))
	for _, d := range docs {
		switch d.Kind {
		case kindFile:
			out = append(out, model.NewFileEntry(d.Path, timeOf(d.LastModified), d.Size, d.PackedSize, d.Hash))
		case kindFolder:
			children, err := toEntries(d.Contents)
			if err != nil {
				return nil, err
			}
			out = append(out, model.NewFolderEntry(d.Path, timeOf(d.LastModified), d.Size, d.PackedSize, children...))
		default:
			return nil, fmt.Errorf("entry %s: %w %q", d.Path, ErrUnknownKind, d.Kind)
		}
	}
	return out, nil
}

// Encode writes the document to w.
func (d *Document) Encode(w io.Writer, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		return nil
	}
}

// Decode reads a document from r.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		err = json.NewDecoder(r).Decode(&doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &doc, nil
}

// Save writes the document to path, choosing the format from its extension.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := d.Encode(f, FormatFor(path)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Load reads the snapshot at path and rebuilds its archives.
func Load(path string) ([]model.Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, err
	}
	return doc.Model()
}
