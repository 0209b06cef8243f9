// Package fingerprint computes a Merkle root over an archive's entry tree.
// Two archives with the same fingerprint have entry trees that compare as
// identical entry by entry.
package fingerprint

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"

	mt "github.com/txaty/go-merkletree"

	"arcdiff/internal/hash"
	"arcdiff/internal/model"
)

var emptyTree = []byte("empty-tree")

// leaf is one entry serialized for the tree.
type leaf struct {
	entry model.Entry
}

func (l leaf) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	e := l.entry
	buf.WriteString(e.Path())
	buf.WriteByte(0)
	buf.WriteByte(byte(e.Kind()))

	var hashValue uint64
	var files, folders int64
	switch v := e.(type) {
	case *model.FileEntry:
		hashValue = v.Hash()
	case *model.FolderEntry:
		files, folders = int64(v.FileCount()), int64(v.FolderCount())
	}

	var modified int64
	if t := e.LastModified(); !t.IsZero() {
		modified = t.UnixNano()
	}
	fields := []any{e.Size(), e.PackedSize(), hashValue, files, folders, modified}
	for _, f := range fields {
		if err := binary.Write(&buf, binary.BigEndian, f); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Compute returns the hex Merkle root of the archive's entries. A nil
// archive has the fingerprint of an empty tree.
func Compute(a model.Archive) (string, error) {
	if a == nil {
		return Entries(nil)
	}
	return Entries(a.Contents())
}

// Entries returns the hex Merkle root over the flattened entries, ordered by
// path key.
func Entries(roots []model.Entry) (string, error) {
	flat := model.Flatten(roots)
	sort.SliceStable(flat, func(i, j int) bool {
		return model.PathKey(flat[i].Path()) < model.PathKey(flat[j].Path())
	})

	switch len(flat) {
	case 0:
		root, err := hash.XXHashFunc(emptyTree)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(root), nil
	case 1:
		// The tree needs at least two leaves; a single entry is its own root.
		data, err := leaf{flat[0]}.Serialize()
		if err != nil {
			return "", fmt.Errorf("failed to serialize entry %s: %w", flat[0].Path(), err)
		}
		root, err := hash.XXHashFunc(data)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(root), nil
	}

	blocks := make([]mt.DataBlock, len(flat))
	for i, e := range flat {
		blocks[i] = leaf{e}
	}
	tree, err := mt.New(&mt.Config{
		HashFunc: hash.XXHashFunc,
		Mode:     mt.ModeTreeBuild,
	}, blocks)
	if err != nil {
		return "", fmt.Errorf("failed to build merkle tree: %w", err)
	}
	return hex.EncodeToString(tree.Root), nil
}
