package trackio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/planbiir/gsquish/internal/gpx"
	"github.com/planbiir/gsquish/internal/track"
)

// Source is a trajectory read from a file. Document is set for GPX input so
// the simplified output can keep the original structure and extensions.
type Source struct {
	Path     string
	Format   Format
	Points   []track.Point
	Document *gpx.GPX
}

// LineError reports a malformed record.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Read loads a trajectory, detecting the format from the file extension.
func Read(path string) (*Source, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return ReadFormat(path, format)
}

// ReadFormat loads a trajectory in an explicit format.
func ReadFormat(path string, format Format) (*Source, error) {
	if !format.Readable() {
		return nil, &UnsupportedFormatError{Format: string(format), Op: "input"}
	}

	if format == FormatGPX {
		doc, err := gpx.Parse(path)
		if err != nil {
			return nil, err
		}
		return &Source{Path: path, Format: format, Points: doc.Trajectory(), Document: doc}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var points []track.Point
	if format == FormatCSV {
		points, err = ReadCSV(file)
	} else {
		points, err = ReadText(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Source{Path: path, Format: format, Points: points}, nil
}

// ReadText parses one "lat lon time" record per line. Blank lines and lines
// starting with '#' are skipped.
func ReadText(r io.Reader) ([]track.Point, error) {
	var points []track.Point

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		p, err := parseRecord(strings.Fields(text))
		if err != nil {
			return nil, &LineError{Line: line, Err: err}
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// ReadCSV parses "lat,lon,time" records without a header.
func ReadCSV(r io.Reader) ([]track.Point, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var points []track.Point
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// *csv.ParseError already names the line
			return nil, err
		}

		p, err := parseRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, &LineError{Line: line, Err: err}
		}
		points = append(points, p)
	}
	return points, nil
}

func parseRecord(fields []string) (track.Point, error) {
	if len(fields) != 3 {
		return track.Point{}, fmt.Errorf("expected 3 fields (lat lon time), got %d", len(fields))
	}

	var values [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return track.Point{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		values[i] = v
	}
	return track.Point{Lat: values[0], Lon: values[1], Time: values[2]}, nil
}
