package trackio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/planbiir/gsquish/internal/gpx"
	"github.com/planbiir/gsquish/internal/track"
)

// Result is a simplified trajectory ready to be written.
type Result struct {
	Points []track.Point
	// Indices locate every point in the source trajectory. Needed to rebuild
	// GPX documents.
	Indices   []int
	Algorithm string
	Metadata  string
}

// Write stores result at path in the given format.
func Write(path string, format Format, src *Source, result Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := WriteTo(file, format, src, result); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteTo encodes result to w in the given format.
func WriteTo(w io.Writer, format Format, src *Source, result Result) error {
	switch format {
	case FormatText:
		return WriteText(w, result.Points)
	case FormatCSV:
		return WriteCSV(w, result.Points)
	case FormatGeoJSON:
		return WriteGeoJSON(w, result)
	case FormatGPX:
		return writeGPX(w, src, result)
	default:
		return &UnsupportedFormatError{Format: string(format), Op: "output"}
	}
}

// WriteText writes one "lat lon time" line per point.
func WriteText(w io.Writer, points []track.Point) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		if _, err := fmt.Fprintf(bw, "%s %s %s\n", formatFloat(p.Lat), formatFloat(p.Lon), formatFloat(p.Time)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCSV writes "lat,lon,time" records without a header.
func WriteCSV(w io.Writer, points []track.Point) error {
	cw := csv.NewWriter(w)
	for _, p := range points {
		if err := cw.Write([]string{formatFloat(p.Lat), formatFloat(p.Lon), formatFloat(p.Time)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGeoJSON writes a FeatureCollection with a single LineString feature.
// Timestamps travel in the "times" property because GeoJSON positions have
// no time component.
func WriteGeoJSON(w io.Writer, result Result) error {
	feature := geojson.NewFeature(track.LineString(result.Points))
	feature.Properties["times"] = track.Times(result.Points)
	feature.Properties["algorithm"] = result.Algorithm
	feature.Properties["metadata"] = result.Metadata

	fc := geojson.NewFeatureCollection()
	fc.Append(feature)

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeGPX(w io.Writer, src *Source, result Result) error {
	if src != nil && src.Document != nil && result.Indices != nil {
		doc, err := src.Document.Subset(result.Indices)
		if err != nil {
			return err
		}
		return doc.WriteToWriter(w)
	}

	name := "simplified track"
	if src != nil && src.Path != "" {
		name = strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	}
	return gpx.New(name, result.Points).WriteToWriter(w)
}

// formatFloat prints the shortest representation that parses back to f.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
