// Package bsa decodes the directory of BSA containers into archive models.
//
// Two dialects exist. The legacy one has a 12-byte header, a flat file table
// and no folder records; folders are inferred from file paths. The modern
// one (versions 0x67 and 0x68) has a 36-byte header and interleaves folder
// records with the file records they own. Only the directory is decoded;
// file contents are never read.
package bsa

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"arcdiff/internal/model"
)

const (
	legacySignature  = 0x100
	legacyHeaderSize = 12
	modernHeaderSize = 36
)

var (
	// ErrInvalidSignature is returned when the header magic is not "BSA\0".
	ErrInvalidSignature = errors.New("invalid BSA signature")

	// ErrUnsupportedVersion is returned for an unknown modern version.
	ErrUnsupportedVersion = errors.New("unsupported BSA version")

	// ErrBigEndian is returned for big-endian (Xbox 360) containers, which
	// are not decoded.
	ErrBigEndian = errors.New("big-endian BSA containers are not supported")

	// ErrTruncated is returned when declared counts or offsets exceed the
	// stream.
	ErrTruncated = errors.New("BSA container is truncated")

	// ErrCorrupt is returned when the directory is internally inconsistent.
	ErrCorrupt = errors.New("BSA directory is inconsistent")
)

// Option configures Decode and Parse.
type Option func(*decoder)

// WithLogger sets the logger that receives decode diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

type decoder struct {
	logger *slog.Logger
}

func newDecoder(opts []Option) *decoder {
	d := &decoder{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// fileRecord is one decoded file of the directory.
type fileRecord struct {
	path       string
	size       int64
	offset     int64
	hash       uint64
	compressed bool
}

// directory is the decoded content of a container.
type directory struct {
	dialect string
	folders []string
	files   []fileRecord
}

// Decode reads the directory of the container in r. The container carries
// neither its own path nor a timestamp, so both are supplied by the caller.
// r is read from its start and is not closed. A panic while decoding is
// reported as ErrCorrupt.
func Decode(r io.ReadSeeker, path string, modTime time.Time, opts ...Option) (arc *model.SingleArchive, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			arc, err = nil, fmt.Errorf("%w: %v", ErrCorrupt, rec)
		}
	}()
	return newDecoder(opts).decode(r, path, modTime)
}

// Parse is Decode for callers that only need the archive: every failure
// yields false.
func Parse(r io.ReadSeeker, path string, modTime time.Time, opts ...Option) (*model.SingleArchive, bool) {
	d := newDecoder(opts)
	arc, err := Decode(r, path, modTime, opts...)
	if err != nil {
		d.logger.Debug("skipping BSA container", slog.String("path", path), slog.Any("error", err))
		return nil, false
	}
	return arc, true
}

func (d *decoder) decode(r io.ReadSeeker, path string, modTime time.Time) (*model.SingleArchive, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek end: %w", err)
	}
	signature, err := peekSignature(r)
	if err != nil {
		return nil, err
	}

	var dir *directory
	if signature == legacySignature {
		dir, err = readLegacy(r, size)
	} else {
		dir, err = readModern(r, size)
	}
	if err != nil {
		return nil, err
	}

	compressed := 0
	for _, f := range dir.files {
		if f.compressed {
			compressed++
		}
	}
	d.logger.Debug("decoded BSA directory",
		slog.String("path", path),
		slog.String("dialect", dir.dialect),
		slog.Int("folders", len(dir.folders)),
		slog.Int("files", len(dir.files)),
		slog.Int("compressed", compressed))

	return assemble(path, modTime, size, dir)
}

// peekSignature reads the first header word and rewinds, so the dialect
// readers see the whole header.
func peekSignature(r io.ReadSeeker) (uint32, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek start: %w", err)
	}
	var head [legacyHeaderSize]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return 0, fmt.Errorf("read header: %w", ErrTruncated)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek start: %w", err)
	}
	return binary.LittleEndian.Uint32(head[:4]), nil
}

// readLE decodes little-endian data and maps short reads to ErrTruncated.
func readLE(r io.Reader, data any, what string) error {
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("read %s: %w", what, ErrTruncated)
		}
		return fmt.Errorf("read %s: %w", what, err)
	}
	return nil
}

// checkData verifies that a file's data lies inside the stream.
func checkData(f fileRecord, streamSize int64) error {
	if f.offset < 0 || f.offset+f.size > streamSize {
		return fmt.Errorf("file %q data at %d+%d exceeds %d bytes: %w",
			f.path, f.offset, f.size, streamSize, ErrTruncated)
	}
	return nil
}
