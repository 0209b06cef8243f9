package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingBefore = `
Listing archive: mods.zip

--
Path = mods.zip
Type = zip
Physical Size = 300

----------
Path = textures
Size = 0
Modified = 2024-01-02 03:04:05
Attributes = D

Path = textures\sky.dds
Size = 200
Packed Size = 150
Modified = 2024-01-02 03:04:05
Attributes = A
CRC = 0000ABCD
`

const listingAfter = listingBefore + `
Path = textures\extra.dds
Size = 10
Packed Size = 10
Modified = 2024-02-02 03:04:05
Attributes = A
CRC = 00001234
`

type fixture struct {
	dir    string
	config string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	return &fixture{dir: dir, config: filepath.Join(dir, "missing-arcdiff.yaml")}
}

func (f *fixture) write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func (f *fixture) run(args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	code = run(append([]string{"--config", f.config}, args...), &out, &errOut)
	return out.String(), errOut.String(), code
}

func emptyLegacyBSA() []byte {
	var buf bytes.Buffer
	for _, v := range []uint32{0x100, 0, 0} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func TestList(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "before.txt", []byte(listingBefore))

	out, _, code := f.run("list", "--fingerprint", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "mods.zip [Zip] 300 B")
	assert.Contains(t, out, "1 files, 1 folders")
	assert.Contains(t, out, `└── textures\`)
	assert.Contains(t, out, "    └── sky.dds  200 B  2024-01-02 03:04:05  0000ABCD")
	assert.Contains(t, out, "fingerprint ")
	assert.NotContains(t, out, "\x1b[")
}

func TestList_Summary(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "before.txt", []byte(listingBefore))

	out, _, code := f.run("list", "-s", path)
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "sky.dds")
}

func TestDiff_Identical(t *testing.T) {
	f := newFixture(t)
	left := f.write(t, "left.txt", []byte(listingBefore))
	right := f.write(t, "right.txt", []byte(listingBefore))

	out, _, code := f.run("diff", left, right)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Entry trees are identical")
	assert.Contains(t, out, "No changes detected.")
}

func TestDiff_Changes(t *testing.T) {
	f := newFixture(t)
	left := f.write(t, "left.txt", []byte(listingBefore))
	right := f.write(t, "right.txt", []byte(listingAfter))

	out, _, code := f.run("diff", "--color", "always", left, right)
	assert.Equal(t, exitChanges, code)
	assert.Contains(t, out, `+ textures\extra.dds`)
	assert.Contains(t, out, "\x1b[")
	assert.NotContains(t, out, "Entry trees are identical")

	out, _, code = f.run("diff", "-q", left, right)
	assert.Equal(t, exitChanges, code)
	assert.Empty(t, out)
}

func TestDiff_LoadError(t *testing.T) {
	f := newFixture(t)
	left := f.write(t, "left.txt", []byte(listingBefore))

	_, errOut, code := f.run("diff", left, filepath.Join(f.dir, "missing.txt"))
	assert.Equal(t, exitLoadError, code)
	assert.Contains(t, errOut, "Error:")

	empty := f.write(t, "empty.txt", []byte("no archive here"))
	_, _, code = f.run("diff", left, empty)
	assert.Equal(t, exitLoadError, code)
}

func TestSnapshot_ThenDiff(t *testing.T) {
	f := newFixture(t)
	listing := f.write(t, "before.txt", []byte(listingBefore))
	snap := filepath.Join(f.dir, "before.yaml")

	out, _, code := f.run("snapshot", listing, snap)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Archives: 1")

	data, err := os.ReadFile(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fingerprint:")

	out, _, code = f.run("diff", snap, listing)
	assert.Equal(t, 0, code, out)
}

func TestScan(t *testing.T) {
	f := newFixture(t)
	f.write(t, "data/Empty.bsa", emptyLegacyBSA())
	f.write(t, "data/notes.md", []byte("not an archive"))
	f.write(t, "data/.git/objects.bsa", emptyLegacyBSA())

	out, _, code := f.run("scan", "--no-progress", "-w", "2", filepath.Join(f.dir, "data"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "Empty.bsa")
	assert.Contains(t, out, "Bsa")
	assert.NotContains(t, out, "objects.bsa")
	assert.Contains(t, out, "1 archives in 1 files")
}

func TestScan_ReportsBrokenArchives(t *testing.T) {
	f := newFixture(t)
	f.write(t, "data/ok.bsa", emptyLegacyBSA())
	f.write(t, "data/broken.bsa", []byte("BSA\x00 but nothing else"))

	out, _, code := f.run("scan", "--no-progress", filepath.Join(f.dir, "data"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Skipped 1 files due to errors")
}

func TestUsageErrors(t *testing.T) {
	f := newFixture(t)

	_, errOut, code := f.run("list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Usage:")

	_, errOut, code = f.run("diff", "--color", "sometimes", "a", "b")
	assert.Equal(t, 1, code)
	assert.True(t, strings.Contains(errOut, "color"), errOut)
}
