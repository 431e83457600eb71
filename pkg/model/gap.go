package model

// GapChannel names a derived differential between the two aligned cars
type GapChannel string

const (
	GapSpeedDiff         GapChannel = "speed_diff"
	GapSpatialSeparation GapChannel = "spatial_separation"
	GapTimeDiff          GapChannel = "time_diff"
	GapDistanceGap       GapChannel = "distance_gap"
	GapThrottleDiff      GapChannel = "throttle_diff"
	GapBrakeDiff         GapChannel = "brake_diff"
)

// AllGapChannels lists gap channels in output order
var AllGapChannels = []GapChannel{
	GapSpeedDiff, GapSpatialSeparation, GapTimeDiff, GapDistanceGap,
	GapThrottleDiff, GapBrakeDiff,
}

// ChannelKind groups gap channels for trend thresholds
type ChannelKind string

const (
	KindDistance   ChannelKind = "distance"
	KindPercentage ChannelKind = "percentage"
)

func (c GapChannel) Kind() ChannelKind {
	switch c {
	case GapThrottleDiff, GapBrakeDiff:
		return KindPercentage
	default:
		return KindDistance
	}
}

// Estimator names the method used for the cumulative distance gap
type Estimator string

const (
	EstimatorAuto Estimator = "auto"
	EstimatorTime Estimator = "time"
	EstimatorPath Estimator = "path"
	EstimatorNone Estimator = "none"
)

const ReferenceAMinusB = "A - B"

type ChannelStats struct {
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

// GapResult holds the derived per grid point differentials of an AlignedPair.
// All differentials follow the "A minus B" convention.
type GapResult struct {
	Reference        string                      `json:"reference" yaml:"reference"`
	Estimator        Estimator                   `json:"estimator" yaml:"estimator"`
	SpatialAvailable bool                        `json:"spatial_available" yaml:"spatial_available"`
	Primary          GapChannel                  `json:"primary" yaml:"primary"`
	Channels         map[GapChannel][]float64    `json:"channels" yaml:"channels"`
	Stats            map[GapChannel]ChannelStats `json:"stats" yaml:"stats"`
	MinIndex         int                         `json:"min_index" yaml:"min_index"`
	MaxIndex         int                         `json:"max_index" yaml:"max_index"`
}

func (g *GapResult) Has(c GapChannel) bool {
	_, ok := g.Channels[c]
	return ok
}

// ProducedChannels returns the channels present in the result in output order
func (g *GapResult) ProducedChannels() []GapChannel {
	ret := make([]GapChannel, 0, len(g.Channels))
	for _, c := range AllGapChannels {
		if g.Has(c) {
			ret = append(ret, c)
		}
	}
	return ret
}
