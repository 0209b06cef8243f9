package model

import "strings"

// Separator is the canonical path separator of entry paths.
const Separator = `\`

// NormalizePath converts an entry path to its canonical form.
//
//   - Forward slashes become backslashes: "a/b" → `a\b`
//   - Consecutive separators collapse: `a\\b` → `a\b`
//   - Surrounding whitespace and separators are trimmed: ` \a\b\ ` → `a\b`
//
// Case is preserved. Use PathKey for comparisons.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "/", Separator)
	parts := strings.Split(p, Separator)
	result := parts[:0]
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}
	return strings.Join(result, Separator)
}

// PathKey returns the identity key of a path: normalized and case-folded.
func PathKey(p string) string {
	return strings.ToLower(NormalizePath(p))
}

// BaseName returns the final segment of a normalized path.
func BaseName(p string) string {
	if i := strings.LastIndex(p, Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ParentPath returns everything before the final separator of a normalized
// path, or "" for a root-level path.
func ParentPath(p string) string {
	if i := strings.LastIndex(p, Separator); i >= 0 {
		return p[:i]
	}
	return ""
}

// Ancestors returns the non-empty directory prefixes of a normalized path,
// shortest first. `a\b\c.txt` yields ["a", `a\b`].
func Ancestors(p string) []string {
	var out []string
	for i := 0; i < len(p); i++ {
		if p[i] == Separator[0] && i > 0 {
			out = append(out, p[:i])
		}
	}
	return out
}

// archiveName extracts the file name of an archive path, which is an OS
// path and may use either separator.
func archiveName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
