package model

import (
	"fmt"
	"strings"
)

// ArchiveType identifies the container format of an archive.
type ArchiveType int

const (
	Unknown ArchiveType = iota
	Split
	Bsa
	BZip2
	GZip
	Mbr
	Pe
	Rar
	SevenZip
	Tar
	Xz
	Vhd
	Zip
)

var archiveTypeNames = [...]string{
	Unknown:  "Unknown",
	Split:    "Split",
	Bsa:      "Bsa",
	BZip2:    "BZip2",
	GZip:     "GZip",
	Mbr:      "Mbr",
	Pe:       "Pe",
	Rar:      "Rar",
	SevenZip: "SevenZip",
	Tar:      "Tar",
	Xz:       "Xz",
	Vhd:      "Vhd",
	Zip:      "Zip",
}

// aliases maps lower-cased 7-Zip type names onto archive types.
var aliases = map[string]ArchiveType{
	"split": Split,
	"bsa":   Bsa,
	"bzip2": BZip2,
	"bz2":   BZip2,
	"gzip":  GZip,
	"gz":    GZip,
	"mbr":   Mbr,
	"pe":    Pe,
	"rar":   Rar,
	"rar5":  Rar,
	"7z":    SevenZip,
	"tar":   Tar,
	"xz":    Xz,
	"vhd":   Vhd,
	"zip":   Zip,
}

func (t ArchiveType) String() string {
	if t < 0 || int(t) >= len(archiveTypeNames) {
		return fmt.Sprintf("ArchiveType(%d)", int(t))
	}
	return archiveTypeNames[t]
}

// ParseArchiveType maps a type name, as printed by 7-Zip or by String, to
// an ArchiveType. Unrecognized names map to Unknown.
func ParseArchiveType(s string) ArchiveType {
	key := strings.ToLower(strings.TrimSpace(s))
	if t, ok := aliases[key]; ok {
		return t
	}
	for i, name := range archiveTypeNames {
		if strings.EqualFold(name, key) {
			return ArchiveType(i)
		}
	}
	return Unknown
}

// MarshalText implements encoding.TextMarshaler.
func (t ArchiveType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ArchiveType) UnmarshalText(text []byte) error {
	*t = ParseArchiveType(string(text))
	return nil
}
