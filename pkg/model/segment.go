package model

type Trend string

const (
	TrendIncreasing   Trend = "increasing"
	TrendDecreasing   Trend = "decreasing"
	TrendStable       Trend = "stable"
	TrendInsufficient Trend = "insufficient data"
)

// SegmentSummary describes the contiguous index range [Start, End) of a channel.
// Statistics are nil for empty segments, Slope is nil for fewer than two points.
type SegmentSummary struct {
	Index         int        `json:"index" yaml:"index"`
	Channel       GapChannel `json:"channel" yaml:"channel"`
	Start         int        `json:"start" yaml:"start"`
	End           int        `json:"end" yaml:"end"`
	Count         int        `json:"count" yaml:"count"`
	StartDistance *float64   `json:"start_distance,omitempty" yaml:"start_distance,omitempty"`
	EndDistance   *float64   `json:"end_distance,omitempty" yaml:"end_distance,omitempty"`
	Mean          *float64   `json:"mean,omitempty" yaml:"mean,omitempty"`
	Min           *float64   `json:"min,omitempty" yaml:"min,omitempty"`
	Max           *float64   `json:"max,omitempty" yaml:"max,omitempty"`
	Slope         *float64   `json:"slope,omitempty" yaml:"slope,omitempty"`
	Trend         Trend      `json:"trend" yaml:"trend"`
}
