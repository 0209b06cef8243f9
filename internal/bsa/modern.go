package bsa

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"arcdiff/internal/model"
)

// Archive flags of the modern header.
const (
	flagDirectoryNames    = 1 << 0
	flagFileNames         = 1 << 1
	flagCompressedDefault = 1 << 2
	flagBigEndian         = 1 << 6
)

// sizeCompressionToggle inverts the archive's default compression for one
// file. It is not part of the size.
const sizeCompressionToggle = 1 << 30

const (
	versionOblivion = 0x67
	versionSkyrim   = 0x68
)

var modernMagic = [4]byte{'B', 'S', 'A', 0}

type modernHeader struct {
	Magic                 [4]byte
	Version               uint32
	Offset                uint32
	ArchiveFlags          uint32
	FolderCount           uint32
	FileCount             uint32
	TotalFolderNameLength uint32
	TotalFileNameLength   uint32
	FileFlags             uint32
}

type folderRecord struct {
	Hash   uint64
	Count  uint32
	Offset uint32
}

type modernFileRecord struct {
	Hash   uint64
	Size   uint32
	Offset uint32
}

func readModern(r io.ReadSeeker, streamSize int64) (*directory, error) {
	var h modernHeader
	if err := readLE(r, &h, "header"); err != nil {
		return nil, err
	}
	if h.Magic != modernMagic {
		return nil, fmt.Errorf("magic %q: %w", h.Magic[:], ErrInvalidSignature)
	}
	if h.Version != versionOblivion && h.Version != versionSkyrim {
		return nil, fmt.Errorf("version %#x: %w", h.Version, ErrUnsupportedVersion)
	}
	if h.ArchiveFlags&flagBigEndian != 0 {
		return nil, ErrBigEndian
	}

	remaining := streamSize - modernHeaderSize
	if int64(h.FileCount)*16+int64(h.FolderCount)*16 > remaining {
		return nil, fmt.Errorf("%d folders and %d files exceed %d bytes: %w",
			h.FolderCount, h.FileCount, remaining, ErrTruncated)
	}
	if int64(h.Offset) < modernHeaderSize || int64(h.Offset) > streamSize {
		return nil, fmt.Errorf("folder records at %d: %w", h.Offset, ErrCorrupt)
	}
	if _, err := r.Seek(int64(h.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek folder records: %w", err)
	}

	folders := make([]folderRecord, h.FolderCount)
	if err := readLE(r, folders, "folder records"); err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	defaultCompressed := h.ArchiveFlags&flagCompressedDefault != 0
	dir := &directory{
		dialect: fmt.Sprintf("modern %#x", h.Version),
		folders: make([]string, 0, len(folders)),
		files:   make([]fileRecord, 0, h.FileCount),
	}
	owners := make([]int, 0, h.FileCount)

	for i, folder := range folders {
		name := fmt.Sprintf("%016x", folder.Hash)
		if h.ArchiveFlags&flagDirectoryNames != 0 {
			var err error
			if name, err = readBString(br); err != nil {
				return nil, fmt.Errorf("folder %d name: %w", i, err)
			}
		}
		dir.folders = append(dir.folders, model.NormalizePath(name))

		if int64(len(dir.files))+int64(folder.Count) > int64(h.FileCount) {
			return nil, fmt.Errorf("folder %d declares %d more files than the header: %w", i, folder.Count, ErrCorrupt)
		}
		records := make([]modernFileRecord, folder.Count)
		if err := readLE(br, records, "file records"); err != nil {
			return nil, err
		}
		for _, rec := range records {
			size := rec.Size
			toggled := size&sizeCompressionToggle != 0
			size &^= sizeCompressionToggle
			dir.files = append(dir.files, fileRecord{
				path:       fmt.Sprintf("%016x", rec.Hash),
				size:       int64(size),
				offset:     int64(rec.Offset),
				hash:       rec.Hash,
				compressed: defaultCompressed != toggled,
			})
			owners = append(owners, i)
		}
	}
	if len(dir.files) != int(h.FileCount) {
		return nil, fmt.Errorf("folders hold %d files, header declares %d: %w", len(dir.files), h.FileCount, ErrCorrupt)
	}

	if h.ArchiveFlags&flagFileNames != 0 {
		for i := range dir.files {
			name, err := br.ReadString(0)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, fmt.Errorf("file name %d: %w", i, ErrTruncated)
				}
				return nil, fmt.Errorf("file name %d: %w", i, err)
			}
			dir.files[i].path = strings.TrimSuffix(name, "\x00")
		}
	}

	for i := range dir.files {
		dir.files[i].path = joinPath(dir.folders[owners[i]], dir.files[i].path)
		if err := checkData(dir.files[i], streamSize); err != nil {
			return nil, err
		}
	}
	return dir, nil
}

// readBString reads a length-prefixed folder name. The length counts the
// terminating NUL.
func readBString(r *bufio.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", ErrTruncated
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrTruncated
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}

// joinPath prefixes a file name with its folder. The root folder is stored
// as "." or an empty name.
func joinPath(folder, name string) string {
	if folder == "" || folder == "." {
		return model.NormalizePath(name)
	}
	return model.NormalizePath(folder + model.Separator + name)
}
