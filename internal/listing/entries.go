package listing

import (
	"fmt"
	"strings"
	"time"

	"arcdiff/internal/model"
)

// Column offsets of the simple entry layout.
const (
	dateFrom, dateTo     = 0, 19
	attrFrom, attrTo     = 20, 25
	sizeFrom, sizeTo     = 26, 38
	packedFrom, packedTo = 39, 51
	nameFrom             = 53
)

// record is a decoded entry line or block before tree assembly.
type record struct {
	path     string
	folder   bool
	size     int64
	packed   int64
	modified time.Time
	crc      uint64
}

func decodeSimpleEntries(text string) ([]record, error) {
	var records []record
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, errorsPrefix) {
			continue
		}
		r, err := decodeSimpleLine(line)
		if err != nil {
			return nil, err
		}
		if r.path == "" {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func decodeSimpleLine(line string) (record, error) {
	var r record
	var err error

	r.path = model.NormalizePath(column(line, nameFrom, -1))
	if r.folder, err = decodeAttributes(column(line, attrFrom, attrTo)); err != nil {
		return r, err
	}
	if r.size, err = decodeInt(column(line, sizeFrom, sizeTo)); err != nil {
		return r, err
	}
	if r.packed, err = decodeInt(column(line, packedFrom, packedTo)); err != nil {
		return r, err
	}
	if r.modified, err = decodeTime(column(line, dateFrom, dateTo)); err != nil {
		return r, err
	}
	return r, nil
}

func decodeComplexEntries(text string) ([]record, error) {
	var records []record
	for _, props := range propertyBlocks(text) {
		r, err := decodeComplexBlock(props)
		if err != nil {
			return nil, err
		}
		if r.path == "" {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func decodeComplexBlock(props map[string]string) (record, error) {
	var r record
	var err error

	path, ok := props["Path"]
	if !ok {
		return r, fmt.Errorf("entry: %w", ErrMissingPath)
	}
	r.path = model.NormalizePath(path)
	if r.folder, err = decodeAttributes(props["Attributes"]); err != nil {
		return r, err
	}
	if props["Folder"] == "+" {
		r.folder = true
	}
	if r.size, err = decodeInt(props["Size"]); err != nil {
		return r, err
	}
	if r.packed, err = decodeInt(props["Packed Size"]); err != nil {
		return r, err
	}
	if r.modified, err = decodeTime(props["Modified"]); err != nil {
		return r, err
	}
	if r.crc, err = decodeHex(props["CRC"]); err != nil {
		return r, err
	}
	return r, nil
}

// inferDirectories marks every record that is a parent directory of another
// record as a folder. Some archivers store directories without the D
// attribute.
func inferDirectories(records []record) {
	prefixes := make(map[string]struct{})
	for _, r := range records {
		for _, dir := range model.Ancestors(r.path) {
			prefixes[model.PathKey(dir)] = struct{}{}
		}
	}
	for i := range records {
		if records[i].folder {
			continue
		}
		if _, ok := prefixes[model.PathKey(records[i].path)]; ok {
			records[i].folder = true
		}
	}
}

// buildEntries repairs directory flags, creates the entries and links them
// into a tree. It returns the root-level entries.
func buildEntries(records []record) []model.Entry {
	inferDirectories(records)

	entries := make([]model.Entry, 0, len(records))
	for _, r := range records {
		if r.folder {
			entries = append(entries, model.NewFolderEntry(r.path, r.modified, r.size, r.packed))
		} else {
			entries = append(entries, model.NewFileEntry(r.path, r.modified, r.size, r.packed, r.crc))
		}
	}
	return model.BuildTree(entries)
}
