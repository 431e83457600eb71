// Package analysis runs the comparison of two telemetry laps.
// The stages align, gap, segment and report are run in this order,
// results are served from the result cache when possible.
package analysis

import (
	"context"
	"errors"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/analysis/align"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/analysis/gap"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/analysis/report"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/analysis/segment"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/config"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/utils/cache"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/utils/cache/resultcache"
)

var ErrMissingSeries = errors.New("both series are required")

type (
	Option   func(a *Analyzer)
	Analyzer struct {
		cache     cache.Cache[string, model.Report]
		assembler *report.Assembler
		l         *log.Logger
	}
	// Request is one comparison of series A against series B
	Request struct {
		A      *model.Series
		B      *model.Series
		Config config.Analysis
	}
)

func WithCache(c cache.Cache[string, model.Report]) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

func WithAssembler(r *report.Assembler) Option {
	return func(a *Analyzer) {
		a.assembler = r
	}
}

func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		a.l = l
	}
}

// New creates an Analyzer. Without WithCache results are kept in memory only.
func New(opts ...Option) *Analyzer {
	ret := &Analyzer{
		assembler: report.New(),
		l:         log.Default().Named("analysis"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.cache == nil {
		ret.cache = resultcache.New[model.Report](
			resultcache.WithLogger[model.Report](ret.l.Named("cache")))
	}
	return ret
}

// Key returns the cache key of req
func Key(req *Request) string {
	return cache.NewKey(req.A, req.B, req.Config).Hash()
}

func (a *Analyzer) Analyze(ctx context.Context, req *Request) (*model.Report, error) {
	if req == nil || req.A == nil || req.B == nil {
		return nil, ErrMissingSeries
	}
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}
	key := Key(req)
	a.l.Debug("analyze",
		log.String("a", req.A.ID().String()),
		log.String("b", req.B.ID().String()),
		log.String("key", key))
	return a.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*model.Report, error) {
		return a.compute(req, key)
	})
}

func (a *Analyzer) compute(req *Request, key string) (*model.Report, error) {
	cfg := req.Config
	pair, err := align.New(
		align.WithMaxPoints(cfg.MaxPoints),
		align.WithUpsampling(cfg.AllowUpsampling),
		align.WithLogger(a.l.Named("align")),
	).Align(req.A, req.B)
	if err != nil {
		return nil, err
	}

	g, err := gap.New(
		gap.WithEstimator(cfg.Estimator),
		gap.WithPrimary(cfg.Primary),
		gap.WithLogger(a.l.Named("gap")),
	).Calc(pair)
	if err != nil {
		return nil, err
	}

	seg := segment.New(
		segment.WithCount(cfg.SegmentCount),
		segment.WithThresholds(cfg.Thresholds),
		segment.WithLogger(a.l.Named("segment")),
	)
	primary, err := seg.Analyze(g.Primary, g.Channels[g.Primary], pair.Grid)
	if err != nil {
		return nil, err
	}
	others := make(map[model.GapChannel][]model.SegmentSummary)
	for _, ch := range g.ProducedChannels() {
		if ch == g.Primary {
			continue
		}
		if others[ch], err = seg.Analyze(ch, g.Channels[ch], pair.Grid); err != nil {
			return nil, err
		}
	}

	return a.assembler.Assemble(&report.Input{
		Pair:            pair,
		Gap:             g,
		Segments:        primary,
		ChannelSegments: others,
		CacheKey:        key,
		SegmentCount:    cfg.SegmentCount,
	})
}

// Invalidate removes the cached result of req
func (a *Analyzer) Invalidate(ctx context.Context, req *Request) error {
	return a.cache.Invalidate(ctx, Key(req))
}
