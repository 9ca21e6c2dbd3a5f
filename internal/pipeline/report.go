package pipeline

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/planbiir/gsquish/internal/clean"
	"github.com/planbiir/gsquish/internal/simplify"
)

// Report describes one simplification run
type Report struct {
	RunID string `json:"run_id"`

	// Files
	Input        string `json:"input"`
	Output       string `json:"output,omitempty"`
	InputFormat  string `json:"input_format"`
	OutputFormat string `json:"output_format"`
	DryRun       bool   `json:"dry_run"`

	// Algorithm
	Algorithm string                  `json:"algorithm"`
	Metadata  string                  `json:"metadata"`
	Buffer    *simplify.PriorityStats `json:"buffer,omitempty"`

	// Point counts
	OriginalPoints   int     `json:"original_points"`
	CleanedPoints    int     `json:"cleaned_points"`
	SimplifiedPoints int     `json:"simplified_points"`
	PointsPercent    float64 `json:"points_removed_percent"`
	CompressionRatio float64 `json:"compression_ratio"`

	// Geometry
	OriginalLength   float64 `json:"original_length_km"`
	SimplifiedLength float64 `json:"simplified_length_km"`
	MaxSED           float64 `json:"max_sed"`
	MeanSED          float64 `json:"mean_sed"`

	Clean clean.Stats `json:"clean"`

	// Performance
	ProcessingTime time.Duration `json:"processing_time_ns"`
}

// JSON encodes the report for -stats-json output
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// BatchJSON encodes several reports as one JSON array
func BatchJSON(reports []Report) ([]byte, error) {
	return json.MarshalIndent(reports, "", "  ")
}
