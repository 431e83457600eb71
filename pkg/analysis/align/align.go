package align

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

const DefaultMaxPoints = 2000

type (
	Option  func(a *Aligner)
	Aligner struct {
		maxPoints       int
		allowUpsampling bool
		l               *log.Logger
	}
	// native holds a series sorted by strictly increasing distance
	native struct {
		dist []float64
		cols map[model.Channel][]float64
	}
)

// WithMaxPoints sets the upper bound for the number of grid points
func WithMaxPoints(n int) Option {
	return func(a *Aligner) {
		a.maxPoints = n
	}
}

// WithUpsampling allows grids with more points than the native sample counts
func WithUpsampling(allow bool) Option {
	return func(a *Aligner) {
		a.allowUpsampling = allow
	}
}

func WithLogger(l *log.Logger) Option {
	return func(a *Aligner) {
		a.l = l
	}
}

func New(opts ...Option) *Aligner {
	ret := &Aligner{
		maxPoints: DefaultMaxPoints,
		l:         log.Default().Named("align"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.maxPoints < 2 {
		ret.maxPoints = 2
	}
	return ret
}

// Align resamples both series onto a shared distance grid spanning the
// intersection of their distance ranges.
func (a *Aligner) Align(sa, sb *model.Series) (*model.AlignedPair, error) {
	minA, maxA := sa.DistanceRange()
	minB, maxB := sb.DistanceRange()
	lo, hi := max(minA, minB), min(maxA, maxB)
	if lo >= hi {
		return nil, &model.DomainOverlapError{
			A: sa.ID(), B: sb.ID(),
			MinA: minA, MaxA: maxA, MinB: minB, MaxB: maxB,
		}
	}

	na := prepare(sa)
	nb := prepare(sb)
	n := a.maxPoints
	if !a.allowUpsampling {
		n = min(n, len(na.dist), len(nb.dist))
	}
	grid := floats.Span(make([]float64, n), lo, hi)
	grid[n-1] = hi

	ret := &model.AlignedPair{
		A:           sa.ID(),
		B:           sb.ID(),
		Grid:        grid,
		ChannelsA:   map[model.Channel][]float64{},
		ChannelsB:   map[model.Channel][]float64{},
		HasTime:     sa.Has(model.ChannelTime) && sb.Has(model.ChannelTime),
		HasPosition: sa.HasPosition() && sb.HasPosition(),
		NativeA:     len(na.dist),
		NativeB:     len(nb.dist),
	}
	for _, ch := range sharedChannels(sa, sb) {
		va, err := resample(na.dist, na.cols[ch], grid, ch == model.ChannelGear)
		if err != nil {
			return nil, fmt.Errorf("series %s channel %s: %w", sa.ID(), ch, err)
		}
		vb, err := resample(nb.dist, nb.cols[ch], grid, ch == model.ChannelGear)
		if err != nil {
			return nil, fmt.Errorf("series %s channel %s: %w", sb.ID(), ch, err)
		}
		ret.ChannelsA[ch] = va
		ret.ChannelsB[ch] = vb
	}

	a.l.Debug("aligned pair",
		log.String("a", sa.ID().String()),
		log.String("b", sb.ID().String()),
		log.Float64("from", lo),
		log.Float64("to", hi),
		log.Int("points", n),
		log.Int("nativeA", ret.NativeA),
		log.Int("nativeB", ret.NativeB),
		log.Bool("position", ret.HasPosition),
		log.Bool("time", ret.HasTime))
	return ret, nil
}

// sharedChannels returns speed plus every optional channel present in both series.
// x and y are only included as a pair.
func sharedChannels(sa, sb *model.Series) []model.Channel {
	ret := []model.Channel{model.ChannelSpeed}
	for _, ch := range model.OptionalChannels {
		switch ch {
		case model.ChannelX, model.ChannelY:
			if sa.HasPosition() && sb.HasPosition() {
				ret = append(ret, ch)
			}
		default:
			if sa.Has(ch) && sb.Has(ch) {
				ret = append(ret, ch)
			}
		}
	}
	return ret
}

// prepare sorts the samples by distance and removes duplicate distances.
// On ties the sample recorded last wins.
func prepare(s *model.Series) *native {
	dist := s.Values(model.ChannelDistance)
	idx := make([]int, len(dist))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return dist[idx[i]] < dist[idx[j]] })

	keep := make([]int, 0, len(idx))
	for _, i := range idx {
		if len(keep) > 0 && dist[keep[len(keep)-1]] == dist[i] {
			keep[len(keep)-1] = i
			continue
		}
		keep = append(keep, i)
	}

	ret := &native{
		dist: make([]float64, len(keep)),
		cols: map[model.Channel][]float64{},
	}
	for k, i := range keep {
		ret.dist[k] = dist[i]
	}
	for _, ch := range s.Channels() {
		if ch == model.ChannelDistance {
			continue
		}
		src := s.Values(ch)
		col := make([]float64, len(keep))
		for k, i := range keep {
			col[k] = src[i]
		}
		ret.cols[ch] = col
	}
	return ret
}

// resample evaluates the samples (xs, ys) at every grid point.
// Continuous channels are interpolated linearly, step channels hold the
// value of the last sample at or before the grid point.
// Outside of xs both use the nearest sample.
func resample(xs, ys, grid []float64, step bool) ([]float64, error) {
	out := make([]float64, len(grid))
	if step {
		for i, x := range grid {
			j := sort.SearchFloat64s(xs, x)
			switch {
			case j < len(xs) && xs[j] == x:
				out[i] = ys[j]
			case j == 0:
				out[i] = ys[0]
			default:
				out[i] = ys[j-1]
			}
		}
		return out, nil
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	for i, x := range grid {
		out[i] = pl.Predict(x)
	}
	return out, nil
}
