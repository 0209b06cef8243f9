package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	attributesPattern = regexp.MustCompile(`^[DRHASIL.]*$`)
	datePattern       = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})?\s*(?:(\d{2}:\d{2}:\d{2})(?:\.\d+)?)?$`)
)

// decodeAttributes validates a Windows attribute string and reports whether
// it marks a directory. Only the first token is inspected; 7-Zip appends the
// POSIX mode of entries created on Unix hosts after a space.
func decodeAttributes(s string) (bool, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false, nil
	}
	attrs := fields[0]
	if !attributesPattern.MatchString(attrs) {
		return false, fmt.Errorf("attributes %q: %w", s, ErrFieldFormat)
	}
	return strings.ContainsRune(attrs, 'D'), nil
}

// decodeInt parses a decimal size. Blank means zero.
func decodeInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("integer %q: %w", s, ErrFieldFormat)
	}
	return n, nil
}

// decodeOptionalInt is decodeInt for archive properties that may be absent,
// in which case the value is aggregated from the entries instead.
func decodeOptionalInt(props map[string]string, key string) (*int64, error) {
	s, ok := props[key]
	if !ok || strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := decodeInt(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &n, nil
}

// decodeHex parses a hexadecimal CRC. Blank means no hash.
func decodeHex(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("crc %q: %w", s, ErrFieldFormat)
	}
	return n, nil
}

// decodeTime parses "yyyy-MM-dd HH:mm:ss" where either half may be absent.
// Without a date the result is the zero time. Fractional seconds are
// dropped and the result is in UTC.
func decodeTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, ErrFieldFormat)
	}
	if m[1] == "" {
		return time.Time{}, nil
	}
	date, err := time.ParseInLocation("2006-01-02", m[1], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, ErrFieldFormat)
	}
	if m[2] == "" {
		return date, nil
	}
	clock, err := time.ParseInLocation("15:04:05", m[2], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w", s, ErrFieldFormat)
	}
	return date.Add(time.Duration(clock.Hour())*time.Hour +
		time.Duration(clock.Minute())*time.Minute +
		time.Duration(clock.Second())*time.Second), nil
}

// column returns line[from:to] trimmed, clamped to the line length. A
// negative to means the end of the line.
func column(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to < 0 || to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}
