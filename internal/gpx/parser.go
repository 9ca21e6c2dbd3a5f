package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/planbiir/gsquish/internal/track"
)

const (
	// Namespace is the GPX 1.1 default namespace.
	Namespace = "http://www.topografix.com/GPX/1/1"
	// Creator is written into documents produced from plain trajectories.
	Creator = "gsquish"
)

// Parse reads and parses a GPX file, preserving all extensions and namespaces
func Parse(filename string) (*GPX, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader parses GPX from an io.Reader
func ParseReader(r io.Reader) (*GPX, error) {
	var gpxData GPX
	if err := xml.NewDecoder(r).Decode(&gpxData); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	if gpxData.XMLNS == "" {
		gpxData.XMLNS = Namespace
	}
	if gpxData.Version == "" {
		gpxData.Version = "1.1"
	}
	if gpxData.Creator == "" {
		gpxData.Creator = Creator
	}

	gpxData.index()
	return &gpxData, nil
}

// index stamps every point with its track, segment and point position.
func (g *GPX) index() {
	for ti := range g.Tracks {
		for si := range g.Tracks[ti].Segments {
			points := g.Tracks[ti].Segments[si].Points
			for pi := range points {
				points[pi].TrackIdx, points[pi].SegIdx, points[pi].PtIdx = ti, si, pi
			}
		}
	}
}

// New creates a single-track document from a plain trajectory.
func New(name string, points []track.Point) *GPX {
	trkpts := make([]Point, len(points))
	for i, p := range points {
		trkpts[i] = Point{Lat: p.Lat, Lon: p.Lon, PtIdx: i}
		if p.Time != 0 {
			trkpts[i].Time = track.GoTime(p.Time)
		}
	}

	return &GPX{
		Version:  "1.1",
		Creator:  Creator,
		XMLNS:    Namespace,
		Metadata: Metadata{Name: name, Time: time.Now().UTC()},
		Tracks: []Track{{
			Name:     name,
			Segments: []TrackSegment{{Points: trkpts}},
		}},
	}
}

// Write saves GPX data to a file, preserving all extensions and structure
func (g *GPX) Write(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return g.WriteToWriter(file)
}

// WriteToWriter writes GPX data to an io.Writer
func (g *GPX) WriteToWriter(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if err := encoder.Encode(g); err != nil {
		return fmt.Errorf("failed to encode GPX: %w", err)
	}
	return encoder.Flush()
}

// FlattenPoints returns all points from all tracks and segments in order
func (g *GPX) FlattenPoints() []Point {
	var points []Point

	for trackIdx, trk := range g.Tracks {
		for segIdx, segment := range trk.Segments {
			for ptIdx, point := range segment.Points {
				point.TrackIdx = trackIdx
				point.SegIdx = segIdx
				point.PtIdx = ptIdx
				points = append(points, point)
			}
		}
	}

	return points
}

// Trajectory returns every point of the document, in order, as a single
// trajectory. Segment boundaries are not preserved.
func (g *GPX) Trajectory() []track.Point {
	flat := g.FlattenPoints()
	points := make([]track.Point, len(flat))
	for i, p := range flat {
		points[i] = p.Trajectory()
	}
	return points
}

// Subset returns a copy of the document that only keeps the flattened points
// at the given ascending indices. Track, segment and point extensions of the
// kept points survive; empty segments and tracks are dropped.
func (g *GPX) Subset(indices []int) (*GPX, error) {
	flat := g.FlattenPoints()

	kept := make([]Point, 0, len(indices))
	prev := -1
	for _, idx := range indices {
		if idx <= prev || idx >= len(flat) {
			return nil, fmt.Errorf("invalid point index %d (previous %d, %d points)", idx, prev, len(flat))
		}
		kept = append(kept, flat[idx])
		prev = idx
	}

	out := *g
	out.RebuildFromPoints(kept)
	return &out, nil
}

// RebuildFromPoints reconstructs GPX structure from a flat list of filtered points
func (g *GPX) RebuildFromPoints(filteredPoints []Point) {
	// Group points back into their original track/segment structure
	trackMap := make(map[int]map[int][]Point)

	for _, point := range filteredPoints {
		if trackMap[point.TrackIdx] == nil {
			trackMap[point.TrackIdx] = make(map[int][]Point)
		}
		trackMap[point.TrackIdx][point.SegIdx] = append(trackMap[point.TrackIdx][point.SegIdx], point)
	}

	var newTracks []Track
	for trackIdx, trk := range g.Tracks {
		segmentMap, exists := trackMap[trackIdx]
		if !exists {
			continue
		}

		var newSegments []TrackSegment
		for segIdx, segment := range trk.Segments {
			if points := segmentMap[segIdx]; len(points) > 0 {
				newSegments = append(newSegments, TrackSegment{
					Points:     points,
					Extensions: segment.Extensions,
				})
			}
		}

		if len(newSegments) > 0 {
			newTracks = append(newTracks, Track{
				Name:        trk.Name,
				Description: trk.Description,
				Type:        trk.Type,
				Segments:    newSegments,
				Extensions:  trk.Extensions,
			})
		}
	}

	g.Tracks = newTracks
}

// Summary describes the size and extent of a document
type Summary struct {
	Points   int
	Tracks   int
	Segments int
	Duration time.Duration
	Distance float64 // km
}

// Stats returns basic statistics about the GPX data
func (g *GPX) Stats() Summary {
	flat := g.FlattenPoints()
	s := Summary{Points: len(flat), Tracks: len(g.Tracks)}

	for _, trk := range g.Tracks {
		s.Segments += len(trk.Segments)
	}

	if len(flat) >= 2 {
		s.Duration = flat[len(flat)-1].Time.Sub(flat[0].Time)
		s.Distance = track.GeodesicLength(g.Trajectory()) / 1000
	}
	return s
}
