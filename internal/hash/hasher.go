package hash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

const bufferSize = 32 * 1024

// HashFile returns the hex xxHash digest of the file at path.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return HashReader(file)
}

// HashReader returns the hex xxHash digest of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.CopyBuffer(h, r, make([]byte, bufferSize)); err != nil {
		return "", fmt.Errorf("failed to read: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sum64 is the xxHash of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// XXHashFunc adapts xxHash to the go-merkletree hash function signature.
// The digest is the big-endian encoding of the 64-bit sum.
func XXHashFunc(data []byte) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, Sum64(data))
	return buf, nil
}
