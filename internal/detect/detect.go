package detect

import (
	"bytes"
	"os"
	"path/filepath"
)

// Format identifies a convertible source package format.
type Format int

const (
	FormatUnknown Format = iota
	FormatDeb
	FormatRpm
)

// String returns the string representation of Format
func (f Format) String() string {
	switch f {
	case FormatDeb:
		return "deb"
	case FormatRpm:
		return "rpm"
	default:
		return "unknown"
	}
}

// Magic bytes for format detection
var (
	// Debian packages start with "!<arch>\ndebian"
	debMagic = []byte("!<arch>\ndebian")

	// RPM packages start with 0xED 0xAB 0xEE 0xDB
	rpmMagic = []byte{0xED, 0xAB, 0xEE, 0xDB}
)

// File determines the source format based on magic bytes, falling back
// to the file extension for truncated or unreadable headers.
func File(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		return FormatUnknown, err
	}
	header = header[:n]

	ext := filepath.Ext(path)

	if bytes.HasPrefix(header, debMagic) || ext == ".deb" {
		return FormatDeb, nil
	}
	if bytes.HasPrefix(header, rpmMagic) || ext == ".rpm" {
		return FormatRpm, nil
	}
	return FormatUnknown, nil
}
