package model

import "time"

type ComparisonInfo struct {
	AnalysisID        string    `json:"analysis_id" yaml:"analysis_id"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
	CacheKey          string    `json:"cache_key,omitempty" yaml:"cache_key,omitempty"`
	A                 SeriesID  `json:"a" yaml:"a"`
	B                 SeriesID  `json:"b" yaml:"b"`
	Reference         string    `json:"reference" yaml:"reference"`
	Estimator         Estimator `json:"estimator" yaml:"estimator"`
	Points            int       `json:"points" yaml:"points"`
	NativeA           int       `json:"native_a" yaml:"native_a"`
	NativeB           int       `json:"native_b" yaml:"native_b"`
	DomainStart       float64   `json:"domain_start" yaml:"domain_start"`
	DomainEnd         float64   `json:"domain_end" yaml:"domain_end"`
	PositionAvailable bool      `json:"position_available" yaml:"position_available"`
	TimeAvailable     bool      `json:"time_available" yaml:"time_available"`
	SegmentCount      int       `json:"segment_count" yaml:"segment_count"`
}

type TelemetryChannels struct {
	Distance []float64             `json:"distance" yaml:"distance"`
	A        map[Channel][]float64 `json:"a" yaml:"a"`
	B        map[Channel][]float64 `json:"b" yaml:"b"`
}

type KeyPointKind string

const (
	KeyPointStart  KeyPointKind = "start"
	KeyPointEnd    KeyPointKind = "end"
	KeyPointMinGap KeyPointKind = "min_gap"
	KeyPointMaxGap KeyPointKind = "max_gap"
)

type KeyPoint struct {
	Kind     KeyPointKind           `json:"kind" yaml:"kind"`
	Index    int                    `json:"index" yaml:"index"`
	Distance float64                `json:"distance" yaml:"distance"`
	A        map[Channel]float64    `json:"a" yaml:"a"`
	B        map[Channel]float64    `json:"b" yaml:"b"`
	Gap      map[GapChannel]float64 `json:"gap" yaml:"gap"`
}

// Report is the single output structure handed to renderers and report writers
type Report struct {
	ComparisonInfo    ComparisonInfo                  `json:"comparison_info" yaml:"comparison_info"`
	TelemetryChannels TelemetryChannels               `json:"telemetry_channels" yaml:"telemetry_channels"`
	GapResult         GapResult                       `json:"gap_result" yaml:"gap_result"`
	SegmentSummaries  []SegmentSummary                `json:"segment_summaries" yaml:"segment_summaries"`
	ChannelSegments   map[GapChannel][]SegmentSummary `json:"channel_segments,omitempty" yaml:"channel_segments,omitempty"`
	KeyPoints         []KeyPoint                      `json:"key_points" yaml:"key_points"`
}
