package bsa

import (
	"bytes"
	"encoding/binary"
)

type testFile struct {
	name string
	data []byte
	hash uint64
	// toggle sets the compression toggle bit in the size field.
	toggle bool
}

type testFolder struct {
	name  string
	hash  uint64
	files []testFile
}

func le(buf *bytes.Buffer, v any) {
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
}

// buildLegacy lays out a legacy container: header, size/offset pairs, name
// offsets, names, hashes, data.
func buildLegacy(files []testFile) []byte {
	var names bytes.Buffer
	nameOffsets := make([]uint32, len(files))
	for i, f := range files {
		nameOffsets[i] = uint32(names.Len())
		names.WriteString(f.name)
		names.WriteByte(0)
	}

	n := uint32(len(files))
	var buf bytes.Buffer
	le(&buf, legacyHeader{Version: legacySignature, Offset: 12*n + uint32(names.Len()), FileCount: n})

	var dataOffset uint32
	for _, f := range files {
		le(&buf, uint32(len(f.data)))
		le(&buf, dataOffset)
		dataOffset += uint32(len(f.data))
	}
	le(&buf, nameOffsets)
	buf.Write(names.Bytes())
	for _, f := range files {
		le(&buf, f.hash)
	}
	for _, f := range files {
		buf.Write(f.data)
	}
	return buf.Bytes()
}

// buildModern lays out a modern container: header, folder records, then per
// folder its name and file records, then file names, then data.
func buildModern(version, flags uint32, folders []testFolder) []byte {
	var folderBlock, names bytes.Buffer
	fileCount := 0
	for _, folder := range folders {
		if flags&flagDirectoryNames != 0 {
			folderBlock.WriteByte(byte(len(folder.name) + 1))
			folderBlock.WriteString(folder.name)
			folderBlock.WriteByte(0)
		}
		folderBlock.Write(make([]byte, 16*len(folder.files)))
		for _, f := range folder.files {
			names.WriteString(f.name)
			names.WriteByte(0)
		}
		fileCount += len(folder.files)
	}
	if flags&flagFileNames == 0 {
		names.Reset()
	}

	dataStart := uint32(modernHeaderSize + 16*len(folders) + folderBlock.Len() + names.Len())

	var buf bytes.Buffer
	le(&buf, modernHeader{
		Magic:               modernMagic,
		Version:             version,
		Offset:              modernHeaderSize,
		ArchiveFlags:        flags,
		FolderCount:         uint32(len(folders)),
		FileCount:           uint32(fileCount),
		TotalFileNameLength: uint32(names.Len()),
	})
	for _, folder := range folders {
		le(&buf, folderRecord{Hash: folder.hash, Count: uint32(len(folder.files))})
	}

	offset := dataStart
	var data bytes.Buffer
	for _, folder := range folders {
		if flags&flagDirectoryNames != 0 {
			buf.WriteByte(byte(len(folder.name) + 1))
			buf.WriteString(folder.name)
			buf.WriteByte(0)
		}
		for _, f := range folder.files {
			size := uint32(len(f.data))
			if f.toggle {
				size |= sizeCompressionToggle
			}
			le(&buf, modernFileRecord{Hash: f.hash, Size: size, Offset: offset})
			offset += uint32(len(f.data))
			data.Write(f.data)
		}
	}
	buf.Write(names.Bytes())
	buf.Write(data.Bytes())
	return buf.Bytes()
}
