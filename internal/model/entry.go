package model

import "time"

// NoHash is the hash value of a file whose content identity is unknown.
const NoHash uint64 = 0

// EntryKind distinguishes files from folders.
type EntryKind int

const (
	FileKind EntryKind = iota
	FolderKind
)

func (k EntryKind) String() string {
	if k == FolderKind {
		return "Folder"
	}
	return "File"
}

// Entry is a file or folder inside an archive. The set of implementations
// is closed: *FileEntry and *FolderEntry.
type Entry interface {
	Kind() EntryKind
	// Path is the normalized path relative to the archive root.
	Path() string
	// Name is the final segment of Path.
	Name() string
	// LastModified is the zero time when unknown.
	LastModified() time.Time
	Size() int64
	PackedSize() int64
	// Parent is nil for root-level entries.
	Parent() *FolderEntry

	base() *entryBase
}

type entryBase struct {
	path         string
	lastModified time.Time
	size         int64
	packedSize   int64
	parent       *FolderEntry
}

func newEntryBase(path string, lastModified time.Time, size, packedSize int64) entryBase {
	if size < 0 {
		size = 0
	}
	if packedSize < 0 {
		packedSize = 0
	}
	return entryBase{
		path:         NormalizePath(path),
		lastModified: lastModified,
		size:         size,
		packedSize:   packedSize,
	}
}

func (e *entryBase) Path() string            { return e.path }
func (e *entryBase) Name() string            { return BaseName(e.path) }
func (e *entryBase) LastModified() time.Time { return e.lastModified }
func (e *entryBase) Size() int64             { return e.size }
func (e *entryBase) PackedSize() int64       { return e.packedSize }
func (e *entryBase) Parent() *FolderEntry    { return e.parent }
func (e *entryBase) base() *entryBase        { return e }

// FileEntry is a file inside an archive.
type FileEntry struct {
	entryBase
	hash uint64
}

// NewFileEntry returns a parentless file entry. Negative sizes are clamped
// to zero.
func NewFileEntry(path string, lastModified time.Time, size, packedSize int64, hash uint64) *FileEntry {
	return &FileEntry{
		entryBase: newEntryBase(path, lastModified, size, packedSize),
		hash:      hash,
	}
}

func (f *FileEntry) Kind() EntryKind { return FileKind }

// Hash is the content identity of the file (CRC for listings, name hash for
// BSA records), or NoHash.
func (f *FileEntry) Hash() uint64 { return f.hash }

// FolderEntry is a folder inside an archive. It owns its children.
type FolderEntry struct {
	entryBase
	contents []Entry
}

// NewFolderEntry returns a folder owning children. Each child must be
// parentless; children that already belong to a folder are skipped.
func NewFolderEntry(path string, lastModified time.Time, size, packedSize int64, children ...Entry) *FolderEntry {
	f := &FolderEntry{entryBase: newEntryBase(path, lastModified, size, packedSize)}
	for _, c := range children {
		f.adopt(c)
	}
	return f
}

func (f *FolderEntry) Kind() EntryKind { return FolderKind }

// Contents returns the direct children in insertion order. The slice must
// not be modified.
func (f *FolderEntry) Contents() []Entry { return f.contents }

// FileCount is the number of direct file children.
func (f *FolderEntry) FileCount() int {
	n := 0
	for _, c := range f.contents {
		if c.Kind() == FileKind {
			n++
		}
	}
	return n
}

// FolderCount is the number of direct folder children.
func (f *FolderEntry) FolderCount() int {
	return len(f.contents) - f.FileCount()
}

func (f *FolderEntry) adopt(child Entry) bool {
	if child == nil {
		return false
	}
	b := child.base()
	if b.parent != nil || child == Entry(f) {
		return false
	}
	b.parent = f
	f.contents = append(f.contents, child)
	return true
}
