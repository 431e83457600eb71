package gap

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

const kmhToMs = 1000.0 / 3600.0

type (
	Option     func(c *Calculator)
	Calculator struct {
		estimator model.Estimator
		primary   model.GapChannel
		l         *log.Logger
	}
)

// WithEstimator selects the cumulative gap estimator (default auto)
func WithEstimator(e model.Estimator) Option {
	return func(c *Calculator) {
		c.estimator = e
	}
}

// WithPrimary selects the channel used for extrema (default speed_diff)
func WithPrimary(p model.GapChannel) Option {
	return func(c *Calculator) {
		c.primary = p
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Calculator) {
		c.l = l
	}
}

func New(opts ...Option) *Calculator {
	ret := &Calculator{
		estimator: model.EstimatorAuto,
		primary:   model.GapSpeedDiff,
		l:         log.Default().Named("gap"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Calc derives the gap channels of an aligned pair. Every differential is A - B.
func (c *Calculator) Calc(p *model.AlignedPair) (*model.GapResult, error) {
	if p == nil || p.Len() == 0 {
		var a, b model.SeriesID
		if p != nil {
			a, b = p.A, p.B
		}
		return nil, &model.EmptyAlignedPairError{A: a, B: b}
	}
	est, err := c.resolveEstimator(p)
	if err != nil {
		return nil, err
	}

	ret := &model.GapResult{
		Reference:        model.ReferenceAMinusB,
		Estimator:        est,
		SpatialAvailable: p.HasPosition,
		Channels:         map[model.GapChannel][]float64{},
		Stats:            map[model.GapChannel]model.ChannelStats{},
	}
	ret.Channels[model.GapSpeedDiff] = diff(p, model.ChannelSpeed)

	if p.HasPosition {
		ret.Channels[model.GapSpatialSeparation] = separation(p)
	}
	switch est {
	case model.EstimatorTime:
		timeDiff, distGap := timeGap(p)
		ret.Channels[model.GapTimeDiff] = timeDiff
		ret.Channels[model.GapDistanceGap] = distGap
	case model.EstimatorPath:
		ret.Channels[model.GapDistanceGap] = pathGap(p)
	case model.EstimatorAuto, model.EstimatorNone:
	}
	if _, ok := p.ChannelsA[model.ChannelThrottle]; ok {
		ret.Channels[model.GapThrottleDiff] = diff(p, model.ChannelThrottle)
	}
	if _, ok := p.ChannelsA[model.ChannelBrake]; ok {
		ret.Channels[model.GapBrakeDiff] = diff(p, model.ChannelBrake)
	}

	for ch, vals := range ret.Channels {
		ret.Stats[ch] = Stats(vals)
	}

	ret.Primary = c.primary
	if !ret.Has(ret.Primary) {
		c.l.Warn("primary channel not available, using speed_diff",
			log.String("primary", string(c.primary)))
		ret.Primary = model.GapSpeedDiff
	}
	prim := ret.Channels[ret.Primary]
	ret.MinIndex = floats.MinIdx(prim)
	ret.MaxIndex = floats.MaxIdx(prim)

	c.l.Debug("gap computed",
		log.String("estimator", string(est)),
		log.Int("channels", len(ret.Channels)),
		log.Int("minIdx", ret.MinIndex),
		log.Int("maxIdx", ret.MaxIndex))
	return ret, nil
}

func (c *Calculator) resolveEstimator(p *model.AlignedPair) (model.Estimator, error) {
	switch c.estimator {
	case model.EstimatorTime:
		if !p.HasTime {
			return "", &model.EstimatorUnavailableError{
				Estimator: c.estimator, Reason: "time channel missing in at least one series",
			}
		}
		return c.estimator, nil
	case model.EstimatorPath:
		if !p.HasPosition {
			return "", &model.EstimatorUnavailableError{
				Estimator: c.estimator, Reason: "position missing in at least one series",
			}
		}
		return c.estimator, nil
	case model.EstimatorNone:
		return c.estimator, nil
	case model.EstimatorAuto:
		switch {
		case p.HasTime:
			return model.EstimatorTime, nil
		case p.HasPosition:
			return model.EstimatorPath, nil
		default:
			return model.EstimatorNone, nil
		}
	default:
		return "", &model.EstimatorUnavailableError{
			Estimator: c.estimator, Reason: "unknown estimator",
		}
	}
}

// Stats computes min, max, mean and population standard deviation of vals.
// vals must not be empty.
func Stats(vals []float64) model.ChannelStats {
	mean, std := stat.PopMeanStdDev(vals, nil)
	if len(vals) == 1 {
		std = 0
	}
	return model.ChannelStats{
		Min:    floats.Min(vals),
		Max:    floats.Max(vals),
		Mean:   mean,
		StdDev: std,
	}
}

func diff(p *model.AlignedPair, ch model.Channel) []float64 {
	return floats.SubTo(make([]float64, p.Len()), p.ChannelsA[ch], p.ChannelsB[ch])
}

func position(p *model.AlignedPair, i int) (a, b r2.Point) {
	a = r2.Point{X: p.ChannelsA[model.ChannelX][i], Y: p.ChannelsA[model.ChannelY][i]}
	b = r2.Point{X: p.ChannelsB[model.ChannelX][i], Y: p.ChannelsB[model.ChannelY][i]}
	return a, b
}

// separation is the planar car to car distance at each grid point
func separation(p *model.AlignedPair) []float64 {
	ret := make([]float64, p.Len())
	for i := range ret {
		a, b := position(p, i)
		ret[i] = a.Sub(b).Norm()
	}
	return ret
}

// timeGap converts the elapsed time difference into a distance using the
// average speed of both cars at the grid point.
func timeGap(p *model.AlignedPair) (timeDiff, distGap []float64) {
	timeDiff = diff(p, model.ChannelTime)
	distGap = make([]float64, p.Len())
	sa, sb := p.ChannelsA[model.ChannelSpeed], p.ChannelsB[model.ChannelSpeed]
	for i := range distGap {
		avg := (sa[i] + sb[i]) / 2 * kmhToMs
		distGap[i] = timeDiff[i] * avg
	}
	return timeDiff, distGap
}

// pathGap accumulates the difference of the step lengths each car travels
// along its own path between consecutive grid points.
func pathGap(p *model.AlignedPair) []float64 {
	ret := make([]float64, p.Len())
	prevA, prevB := position(p, 0)
	for i := 1; i < len(ret); i++ {
		curA, curB := position(p, i)
		stepA := curA.Sub(prevA).Norm()
		stepB := curB.Sub(prevB).Norm()
		ret[i] = ret[i-1] + (stepA - stepB)
		prevA, prevB = curA, curB
	}
	return ret
}

