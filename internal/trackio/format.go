// Package trackio reads trajectories from and writes them to the supported
// file formats: whitespace separated text, CSV, GPX and (write only) GeoJSON.
package trackio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a trajectory file format.
type Format string

const (
	FormatText    Format = "txt"
	FormatCSV     Format = "csv"
	FormatGPX     Format = "gpx"
	FormatGeoJSON Format = "geojson"
)

// UnsupportedFormatError is returned for formats the requested operation
// cannot handle.
type UnsupportedFormatError struct {
	Format string
	Op     string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported %s format: %q", e.Op, e.Format)
}

// ParseFormat validates a format name. "text" and "json" are accepted as
// aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "txt", "text", "dat":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "gpx":
		return FormatGPX, nil
	case "geojson", "json":
		return FormatGeoJSON, nil
	default:
		return "", &UnsupportedFormatError{Format: s, Op: "file"}
	}
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", &UnsupportedFormatError{Format: path, Op: "file"}
	}
	return ParseFormat(ext)
}

// Readable reports whether trajectories can be read in this format.
func (f Format) Readable() bool {
	return f == FormatText || f == FormatCSV || f == FormatGPX
}

// OutputPath derives the output file name for input: the suffix is inserted
// before the extension and the extension follows the output format.
func OutputPath(input, suffix string, format Format) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix + "." + string(format)
}
