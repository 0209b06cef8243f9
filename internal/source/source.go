// Package source turns an input path into archives. The file extension
// picks the decoder: binary BSA containers, saved 7-Zip listings, saved
// snapshots, or any other archive listed through the external archiver.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"arcdiff/internal/bsa"
	"arcdiff/internal/listing"
	"arcdiff/internal/model"
	"arcdiff/internal/snapshot"
)

// ErrNoArchives is returned when an input decodes to no archive at all.
var ErrNoArchives = errors.New("no archive could be read")

// Kind is the decoder chosen for an input.
type Kind int

const (
	KindArchive Kind = iota
	KindBSA
	KindListing
	KindSnapshot
)

func (k Kind) String() string {
	switch k {
	case KindBSA:
		return "bsa"
	case KindListing:
		return "listing"
	case KindSnapshot:
		return "snapshot"
	default:
		return "archive"
	}
}

// KindOf picks the decoder for path from its extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bsa":
		return KindBSA
	case ".txt", ".log", ".lst":
		return KindListing
	case ".json", ".yaml", ".yml":
		return KindSnapshot
	default:
		return KindArchive
	}
}

// Lister produces the console listing of an archive.
type Lister interface {
	List(ctx context.Context, path string) (string, error)
}

type Option func(*Loader)

func WithLogger(l *slog.Logger) Option {
	return func(lo *Loader) {
		lo.logger = l
	}
}

// Loader reads inputs of any Kind.
type Loader struct {
	lister Lister
	logger *slog.Logger
}

func New(lister Lister, opts ...Option) *Loader {
	l := &Loader{
		lister: lister,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns every archive described by the input at path.
func (l *Loader) Load(ctx context.Context, path string) ([]model.Archive, error) {
	kind := KindOf(path)
	l.logger.Debug("loading input", "path", path, "kind", kind)

	var archives []model.Archive
	var err error
	switch kind {
	case KindBSA:
		archives, err = l.loadBSA(path)
	case KindListing:
		archives, err = l.loadListing(path)
	case KindSnapshot:
		archives, err = snapshot.Load(path)
	default:
		archives, err = l.loadArchive(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoArchives)
	}
	return archives, nil
}

// LoadOne returns the first archive described by the input at path.
func (l *Loader) LoadOne(ctx context.Context, path string) (model.Archive, error) {
	archives, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(archives) > 1 {
		l.logger.Warn("input describes several archives, using the first",
			"path", path, "count", len(archives), "archive", archives[0].Path())
	}
	return archives[0], nil
}

func (l *Loader) loadBSA(path string) ([]model.Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	arc, err := bsa.Decode(f, path, info.ModTime(), bsa.WithLogger(l.logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []model.Archive{arc}, nil
}

func (l *Loader) loadListing(path string) ([]model.Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return listing.Parse(string(data), listing.WithLogger(l.logger)), nil
}

func (l *Loader) loadArchive(ctx context.Context, path string) ([]model.Archive, error) {
	if l.lister == nil {
		return nil, fmt.Errorf("%s: no archiver configured: %w", path, ErrNoArchives)
	}
	text, err := l.lister.List(ctx, path)
	if err != nil {
		return nil, err
	}
	return listing.Parse(text, listing.WithLogger(l.logger)), nil
}
