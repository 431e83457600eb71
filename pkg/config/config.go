package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LogLevel        string            // sets the log level (zap log level values)
	LogFormat       string            // text vs json
	LogFilter       string            // zapfilter rules, empty means no filter
	CacheBackend    string            // memory, badger, sqlite, nats
	CacheDir        string            // root directory for local cache stores
	NatsURL         string            // NATS server for the nats cache backend and report publishing
	NatsBucket      string            // JetStream KV bucket used by the nats cache backend
	PublishSubject  string            // if set, reports are published to this NATS subject
	MaxPoints       int               // upper bound for shared grid points
	AllowUpsampling bool              // if true, the grid may exceed the native sample count
	SegmentCount    int               // number of segments for trend summaries
	Estimator       string            // auto, time, path, none
	PrimaryChannel  string            // gap channel used for extrema and segment summaries
	DistanceSlope   float64           // trend threshold for distance based channels
	PercentSlope    float64           // trend threshold for percentage based channels
	ChannelSlopes   map[string]string // per gap channel trend thresholds, overrides the kind values
)

const (
	DefaultMaxPoints     = 2000
	DefaultSegmentCount  = 5
	DefaultDistanceSlope = 0.5
	DefaultPercentSlope  = 5.0
)

var ErrInvalidConfig = errors.New("invalid analysis config")

// Thresholds holds the slope thresholds used for trend classification.
// A value in ByChannel overrides the one of the channel kind.
type Thresholds struct {
	ByKind    map[model.ChannelKind]float64
	ByChannel map[model.GapChannel]float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ByKind: map[model.ChannelKind]float64{
			model.KindDistance:   DefaultDistanceSlope,
			model.KindPercentage: DefaultPercentSlope,
		},
		ByChannel: map[model.GapChannel]float64{},
	}
}

func (t Thresholds) For(c model.GapChannel) float64 {
	if v, ok := t.ByChannel[c]; ok {
		return v
	}
	if v, ok := t.ByKind[c.Kind()]; ok {
		return v
	}
	return DefaultDistanceSlope
}

// Analysis is the explicit configuration handed to the analysis components
type Analysis struct {
	MaxPoints       int
	AllowUpsampling bool
	SegmentCount    int
	Estimator       model.Estimator
	Primary         model.GapChannel
	Thresholds      Thresholds
}

func DefaultAnalysis() Analysis {
	return Analysis{
		MaxPoints:    DefaultMaxPoints,
		SegmentCount: DefaultSegmentCount,
		Estimator:    model.EstimatorAuto,
		Primary:      model.GapSpeedDiff,
		Thresholds:   DefaultThresholds(),
	}
}

func (a Analysis) Validate() error {
	if a.MaxPoints < 2 {
		return fmt.Errorf("%w: max points %d < 2", ErrInvalidConfig, a.MaxPoints)
	}
	if a.SegmentCount < 1 {
		return fmt.Errorf("%w: segment count %d < 1", ErrInvalidConfig, a.SegmentCount)
	}
	if !slices.Contains([]model.Estimator{
		model.EstimatorAuto, model.EstimatorTime, model.EstimatorPath, model.EstimatorNone,
	}, a.Estimator) {
		return fmt.Errorf("%w: unknown estimator %q", ErrInvalidConfig, a.Estimator)
	}
	if !slices.Contains(model.AllGapChannels, a.Primary) {
		return fmt.Errorf("%w: unknown primary channel %q", ErrInvalidConfig, a.Primary)
	}
	return nil
}

// AnalysisFromFlags builds the analysis config from the resolved CLI values
func AnalysisFromFlags() (Analysis, error) {
	ret := DefaultAnalysis()
	ret.MaxPoints = MaxPoints
	ret.AllowUpsampling = AllowUpsampling
	ret.SegmentCount = SegmentCount
	ret.Estimator = model.Estimator(Estimator)
	ret.Primary = model.GapChannel(PrimaryChannel)
	ret.Thresholds.ByKind[model.KindDistance] = DistanceSlope
	ret.Thresholds.ByKind[model.KindPercentage] = PercentSlope
	for name, val := range ChannelSlopes {
		ch := model.GapChannel(name)
		if !slices.Contains(model.AllGapChannels, ch) {
			return ret, fmt.Errorf("%w: unknown gap channel %q", ErrInvalidConfig, name)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil || v < 0 {
			return ret, fmt.Errorf("%w: threshold %q for %s", ErrInvalidConfig, val, name)
		}
		ret.Thresholds.ByChannel[ch] = v
	}
	return ret, ret.Validate()
}

// Cache holds the settings of the result cache store
type Cache struct {
	Backend string
	Dir     string
	NatsURL string
	Bucket  string
}

func CacheFromFlags() Cache {
	return Cache{
		Backend: CacheBackend,
		Dir:     CacheDir,
		NatsURL: NatsURL,
		Bucket:  NatsBucket,
	}
}
