package segment

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/config"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

type (
	Option   func(a *Analyzer)
	Analyzer struct {
		count      int
		thresholds config.Thresholds
		l          *log.Logger
	}
	// Range is the half open index interval [Start, End)
	Range struct {
		Start int
		End   int
	}
)

func WithCount(k int) Option {
	return func(a *Analyzer) {
		a.count = k
	}
}

func WithThresholds(t config.Thresholds) Option {
	return func(a *Analyzer) {
		a.thresholds = t
	}
}

func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		a.l = l
	}
}

func New(opts ...Option) *Analyzer {
	ret := &Analyzer{
		count:      config.DefaultSegmentCount,
		thresholds: config.DefaultThresholds(),
		l:          log.Default().Named("segment"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (r Range) Len() int {
	return r.End - r.Start
}

// Partition splits n points into k contiguous ranges. The first k-1 ranges
// have n/k points each, the last one takes the remainder.
func Partition(n, k int) ([]Range, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInvalidSegmentCount, k)
	}
	if n < 0 {
		n = 0
	}
	base := n / k
	ret := make([]Range, k)
	for i := range k - 1 {
		ret[i] = Range{Start: i * base, End: (i + 1) * base}
	}
	ret[k-1] = Range{Start: (k - 1) * base, End: n}
	return ret, nil
}

// Classify maps a fitted slope to a trend using the symmetric threshold t
func Classify(slope, t float64) model.Trend {
	switch {
	case slope > t:
		return model.TrendIncreasing
	case slope < -t:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

// Analyze summarizes vals in the configured number of segments.
// grid provides the distance of each point and may be nil.
//
//nolint:whitespace // editor/linter issue
func (a *Analyzer) Analyze(
	ch model.GapChannel, vals, grid []float64,
) ([]model.SegmentSummary, error) {
	ranges, err := Partition(len(vals), a.count)
	if err != nil {
		return nil, err
	}
	threshold := a.thresholds.For(ch)
	ret := make([]model.SegmentSummary, len(ranges))
	for i, r := range ranges {
		ret[i] = summarize(i, ch, r, vals, grid, threshold)
	}
	a.l.Debug("segments computed",
		log.String("channel", string(ch)),
		log.Int("points", len(vals)),
		log.Int("segments", len(ret)),
		log.Float64("threshold", threshold))
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func summarize(
	idx int, ch model.GapChannel, r Range, vals, grid []float64, threshold float64,
) model.SegmentSummary {
	ret := model.SegmentSummary{
		Index:   idx,
		Channel: ch,
		Start:   r.Start,
		End:     r.End,
		Count:   r.Len(),
		Trend:   model.TrendInsufficient,
	}
	if r.Len() == 0 {
		return ret
	}
	part := vals[r.Start:r.End]
	if len(grid) >= r.End {
		ret.StartDistance = lo.ToPtr(grid[r.Start])
		ret.EndDistance = lo.ToPtr(grid[r.End-1])
	}
	ret.Mean = lo.ToPtr(stat.Mean(part, nil))
	ret.Min = lo.ToPtr(floats.Min(part))
	ret.Max = lo.ToPtr(floats.Max(part))
	if r.Len() < 2 {
		return ret
	}
	xs := make([]float64, r.Len())
	for i := range xs {
		xs[i] = float64(r.Start + i)
	}
	_, slope := stat.LinearRegression(xs, part, nil, false)
	ret.Slope = lo.ToPtr(slope)
	ret.Trend = Classify(slope, threshold)
	return ret
}
