package clean

import (
	"time"

	"github.com/planbiir/gsquish/internal/track"
)

// Config holds sanitation parameters
type Config struct {
	// Point validity
	DropNonFinite       bool `yaml:"drop_non_finite"`
	DropZeroCoordinates bool `yaml:"drop_zero_coordinates"` // 0,0 fixes from cold GPS receivers; planar input may use the origin

	// Stream order
	DropOutOfOrder bool `yaml:"drop_out_of_order"`
	DropDuplicates bool `yaml:"drop_duplicates"`

	// Speed guard
	MaxSpeed     float64 `yaml:"max_speed"`      // m/s haversine, 0 disables
	AutoMaxSpeed bool    `yaml:"auto_max_speed"` // use the detected activity limit when MaxSpeed is 0
}

// DefaultConfig returns the configuration used when nothing is specified
func DefaultConfig() Config {
	return Config{
		DropNonFinite:       true,
		DropZeroCoordinates: false,
		DropOutOfOrder:      true,
		DropDuplicates:      true,
		MaxSpeed:            0,
		AutoMaxSpeed:        false,
	}
}

// Stats represents sanitation results and metrics
type Stats struct {
	// Input
	OriginalPoints int `json:"original_points"`

	// Removal reasons
	NonFinite       int `json:"non_finite"`
	ZeroCoordinates int `json:"zero_coordinates"`
	OutOfOrder      int `json:"out_of_order"`
	Duplicates      int `json:"duplicates"`
	TooFast         int `json:"too_fast"`

	// Results
	FinalPoints   int     `json:"final_points"`
	PointsRemoved int     `json:"points_removed"`
	PointsPercent float64 `json:"points_removed_percent"`

	// Performance
	ProcessingTime time.Duration `json:"processing_time_ns"`

	// Activity detection
	ActivityType     string  `json:"activity_type"`
	DetectedMaxSpeed float64 `json:"detected_max_speed_ms"`
	P95Speed         float64 `json:"p95_speed_ms"`
	AppliedMaxSpeed  float64 `json:"applied_max_speed_ms"`
}

// Result contains the surviving points, their positions in the input and
// statistics
type Result struct {
	Points  []track.Point
	Indices []int
	Stats   Stats
}
