package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyPath is returned when an archive is constructed without a path.
	ErrEmptyPath = errors.New("archive path is empty")

	// ErrNegativeSize is returned when an archive is constructed with a
	// negative size.
	ErrNegativeSize = errors.New("archive size is negative")

	// ErrNoNestedArchive is returned when a split archive is constructed
	// without its nested archive.
	ErrNoNestedArchive = errors.New("split archive has no nested archive")
)

// Archive is a parsed archive. The set of implementations is closed:
// *SingleArchive and *SplitArchive.
type Archive interface {
	Path() string
	// Name is the file name part of Path.
	Name() string
	Type() ArchiveType
	PhysicalSize() int64
	// LastModified is the zero time when unknown.
	LastModified() time.Time
	// Contents returns the root-level entries.
	Contents() []Entry

	isArchive()
}

// SingleArchiveConfig holds the properties of a single archive. Nil Size and
// PackedSize are computed from the contained entries, and a zero
// LastModified is taken from the newest entry.
type SingleArchiveConfig struct {
	Path         string
	Type         ArchiveType
	PhysicalSize int64
	LastModified time.Time
	Size         *int64
	PackedSize   *int64
}

// SingleArchive is an archive stored in one file.
type SingleArchive struct {
	path         string
	typ          ArchiveType
	physicalSize int64
	lastModified time.Time
	size         int64
	packedSize   int64
	fileCount    int
	folderCount  int
	contents     []Entry
}

// NewSingleArchive builds an archive owning the given root entries.
func NewSingleArchive(cfg SingleArchiveConfig, contents []Entry) (*SingleArchive, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	if cfg.PhysicalSize < 0 {
		return nil, fmt.Errorf("physical size %d: %w", cfg.PhysicalSize, ErrNegativeSize)
	}

	a := &SingleArchive{
		path:         cfg.Path,
		typ:          cfg.Type,
		physicalSize: cfg.PhysicalSize,
		lastModified: cfg.LastModified,
		contents:     contents,
	}

	var size, packed int64
	var newest time.Time
	for _, e := range Flatten(contents) {
		size += e.Size()
		packed += e.PackedSize()
		if e.LastModified().After(newest) {
			newest = e.LastModified()
		}
		if e.Kind() == FolderKind {
			a.folderCount++
		} else {
			a.fileCount++
		}
	}

	a.size = size
	if cfg.Size != nil {
		a.size = *cfg.Size
	}
	a.packedSize = packed
	if cfg.PackedSize != nil {
		a.packedSize = *cfg.PackedSize
	}
	if a.size < 0 || a.packedSize < 0 {
		return nil, fmt.Errorf("size %d, packed size %d: %w", a.size, a.packedSize, ErrNegativeSize)
	}
	if a.lastModified.IsZero() {
		a.lastModified = newest
	}
	return a, nil
}

func (a *SingleArchive) isArchive() {}

func (a *SingleArchive) Path() string            { return a.path }
func (a *SingleArchive) Name() string            { return archiveName(a.path) }
func (a *SingleArchive) Type() ArchiveType       { return a.typ }
func (a *SingleArchive) PhysicalSize() int64     { return a.physicalSize }
func (a *SingleArchive) LastModified() time.Time { return a.lastModified }
func (a *SingleArchive) Contents() []Entry       { return a.contents }

// Size is the total unpacked size of the contents.
func (a *SingleArchive) Size() int64 { return a.size }

// PackedSize is the total packed size of the contents.
func (a *SingleArchive) PackedSize() int64 { return a.packedSize }

// FileCount counts files at every depth.
func (a *SingleArchive) FileCount() int { return a.fileCount }

// FolderCount counts folders at every depth.
func (a *SingleArchive) FolderCount() int { return a.folderCount }

// SplitArchiveConfig holds the properties of the outer, multi-volume level
// of a split archive.
type SplitArchiveConfig struct {
	Path              string
	Type              ArchiveType
	PhysicalSize      int64
	LastModified      time.Time
	TotalPhysicalSize int64
}

// SplitArchive is an archive spread over several volumes. It owns the
// logical archive stored in those volumes.
type SplitArchive struct {
	path              string
	typ               ArchiveType
	physicalSize      int64
	lastModified      time.Time
	totalPhysicalSize int64
	nested            *SingleArchive
}

// NewSplitArchive wraps nested. A zero TotalPhysicalSize defaults to the
// nested archive's physical size.
func NewSplitArchive(cfg SplitArchiveConfig, nested *SingleArchive) (*SplitArchive, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	if nested == nil {
		return nil, ErrNoNestedArchive
	}
	if cfg.PhysicalSize < 0 || cfg.TotalPhysicalSize < 0 {
		return nil, fmt.Errorf("physical size %d, total physical size %d: %w",
			cfg.PhysicalSize, cfg.TotalPhysicalSize, ErrNegativeSize)
	}

	total := cfg.TotalPhysicalSize
	if total == 0 {
		total = nested.PhysicalSize()
	}
	return &SplitArchive{
		path:              cfg.Path,
		typ:               cfg.Type,
		physicalSize:      cfg.PhysicalSize,
		lastModified:      cfg.LastModified,
		totalPhysicalSize: total,
		nested:            nested,
	}, nil
}

func (a *SplitArchive) isArchive() {}

func (a *SplitArchive) Path() string        { return a.path }
func (a *SplitArchive) Name() string        { return archiveName(a.path) }
func (a *SplitArchive) Type() ArchiveType   { return a.typ }
func (a *SplitArchive) PhysicalSize() int64 { return a.physicalSize }

// LastModified falls back to the nested archive's time when unset.
func (a *SplitArchive) LastModified() time.Time {
	if a.lastModified.IsZero() {
		return a.nested.LastModified()
	}
	return a.lastModified
}

// Contents returns the nested archive's root entries.
func (a *SplitArchive) Contents() []Entry { return a.nested.Contents() }

// TotalPhysicalSize is the combined size of all volumes.
func (a *SplitArchive) TotalPhysicalSize() int64 { return a.totalPhysicalSize }

// Nested returns the logical archive stored in the volumes.
func (a *SplitArchive) Nested() *SingleArchive { return a.nested }
