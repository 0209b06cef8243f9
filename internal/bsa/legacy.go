package bsa

import (
	"bytes"
	"fmt"
	"io"
)

// Minimum directory bytes per legacy file: size/offset pair (8), name
// offset (4), hash (8) and a one-byte name terminator.
const legacyMinBytesPerFile = 21

type legacyHeader struct {
	Version   uint32
	Offset    uint32 // length of the directory section after the header
	FileCount uint32
}

func readLegacy(r io.Reader, streamSize int64) (*directory, error) {
	var h legacyHeader
	if err := readLE(r, &h, "legacy header"); err != nil {
		return nil, err
	}

	n := int64(h.FileCount)
	remaining := streamSize - legacyHeaderSize
	if n*legacyMinBytesPerFile > remaining {
		return nil, fmt.Errorf("%d files need at least %d bytes, have %d: %w",
			n, n*legacyMinBytesPerFile, remaining, ErrTruncated)
	}
	if int64(h.Offset)+n*8 > remaining {
		return nil, fmt.Errorf("directory of %d bytes and hash table exceed %d bytes: %w",
			h.Offset, remaining, ErrTruncated)
	}
	nameBytes := int64(h.Offset) - n*12
	if nameBytes < 0 {
		return nil, fmt.Errorf("directory of %d bytes cannot hold %d records: %w", h.Offset, n, ErrCorrupt)
	}

	records := make([]uint32, 2*n)
	if err := readLE(r, records, "file records"); err != nil {
		return nil, err
	}
	nameOffsets := make([]uint32, n)
	if err := readLE(r, nameOffsets, "name offsets"); err != nil {
		return nil, err
	}
	names := make([]byte, nameBytes)
	if err := readLE(r, names, "names"); err != nil {
		return nil, err
	}
	hashes := make([]uint64, n)
	if err := readLE(r, hashes, "hashes"); err != nil {
		return nil, err
	}

	dataStart := legacyHeaderSize + int64(h.Offset) + n*8
	dir := &directory{dialect: "legacy", files: make([]fileRecord, 0, n)}
	for i := int64(0); i < n; i++ {
		name, err := cString(names, nameOffsets[i])
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", i, err)
		}
		f := fileRecord{
			path:   name,
			size:   int64(records[2*i]),
			offset: dataStart + int64(records[2*i+1]),
			hash:   hashes[i],
		}
		if err := checkData(f, streamSize); err != nil {
			return nil, err
		}
		dir.files = append(dir.files, f)
	}
	return dir, nil
}

// cString returns the NUL-terminated string at off in buf.
func cString(buf []byte, off uint32) (string, error) {
	if int64(off) >= int64(len(buf)) {
		return "", fmt.Errorf("name offset %d outside %d-byte name table: %w", off, len(buf), ErrCorrupt)
	}
	rest := buf[off:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return "", fmt.Errorf("unterminated name at %d: %w", off, ErrCorrupt)
	}
	return string(rest[:end]), nil
}
