// Package listing decodes the console output of the 7-Zip "l" command into
// archive models.
//
// The input may hold the listings of several archives back to back. Each
// archive is decoded independently: an archive whose listing is malformed
// is skipped and the rest of the batch is still returned.
package listing

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"arcdiff/internal/model"
)

// Markers of the 7-Zip listing grammar.
const (
	archiveMarker     = "\nListing archive: "
	propertySeparator = "\n--\n"
	splitSeparator    = "\n----\n"
	complexBanner     = "\n----------\n"
	simpleBanner      = "------------------- ----- ------------ ------------  ------------------------"
	keyValueSeparator = " = "
	errorsPrefix      = "Errors:"
)

var (
	// ErrNoProperties is returned for a listing segment without a property
	// block; such a segment does not describe an archive.
	ErrNoProperties = errors.New("listing has no property block")

	// ErrMissingPath is returned when a property block has no Path.
	ErrMissingPath = errors.New("required Path property is missing")

	// ErrFieldFormat is returned when a field value does not match its
	// expected format.
	ErrFieldFormat = errors.New("malformed field")
)

// Option configures Parse.
type Option func(*parser)

// WithLogger sets the logger that receives diagnostics for skipped
// archives.
func WithLogger(logger *slog.Logger) Option {
	return func(p *parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type parser struct {
	logger *slog.Logger
}

// Parse decodes every archive listed in text. Archives whose listing cannot
// be decoded are left out of the result.
func Parse(text string, opts ...Option) []model.Archive {
	p := &parser{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(p)
	}

	archives := make([]model.Archive, 0)
	for i, seg := range segments(text) {
		arc, err := parseSegment(seg)
		if err != nil {
			p.logger.Debug("skipping archive listing",
				slog.Int("segment", i),
				slog.String("archive", segmentTitle(seg)),
				slog.Any("error", err))
			continue
		}
		p.logger.Debug("parsed archive listing",
			slog.String("path", arc.Path()),
			slog.String("type", arc.Type().String()))
		archives = append(archives, arc)
	}
	return archives
}

// segments splits text into one piece per listed archive. Each piece starts
// right after the archive marker.
func segments(text string) []string {
	text = "\n" + strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, archiveMarker)
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

// segmentTitle is the archive name printed on the marker line.
func segmentTitle(seg string) string {
	if i := strings.IndexByte(seg, '\n'); i >= 0 {
		return strings.TrimSpace(seg[:i])
	}
	return strings.TrimSpace(seg)
}

func parseSegment(seg string) (model.Archive, error) {
	start := strings.Index(seg, propertySeparator)
	if start < 0 {
		return nil, ErrNoProperties
	}
	body := seg[start+len(propertySeparator):]

	layout, propsText, entriesText := splitSections(body)

	var records []record
	var err error
	switch layout {
	case simpleLayout:
		records, err = decodeSimpleEntries(entriesText)
	case complexLayout:
		records, err = decodeComplexEntries(entriesText)
	}
	if err != nil {
		return nil, err
	}

	entries := buildEntries(records)

	outer, nested, split := splitProperties(propsText)
	if split {
		arc, err := buildSplit(parseProperties(outer), parseProperties(nested), entries)
		if err != nil {
			return nil, err
		}
		return arc, nil
	}
	arc, err := buildSingle(parseProperties(outer), entries)
	if err != nil {
		return nil, err
	}
	return arc, nil
}
