package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

type (
	Option    func(a *Assembler)
	Assembler struct {
		now   func() time.Time
		newID func() string
	}
	// Input collects the pieces of one analysis
	Input struct {
		Pair            *model.AlignedPair
		Gap             *model.GapResult
		Segments        []model.SegmentSummary
		ChannelSegments map[model.GapChannel][]model.SegmentSummary
		CacheKey        string
		SegmentCount    int
	}
)

func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		a.now = now
	}
}

func WithIDGenerator(f func() string) Option {
	return func(a *Assembler) {
		a.newID = f
	}
}

func New(opts ...Option) *Assembler {
	ret := &Assembler{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Assemble combines the analysis pieces into a report
func (a *Assembler) Assemble(in *Input) (*model.Report, error) {
	p, g := in.Pair, in.Gap
	if p == nil || p.Len() == 0 || g == nil {
		var ida, idb model.SeriesID
		if p != nil {
			ida, idb = p.A, p.B
		}
		return nil, &model.EmptyAlignedPairError{A: ida, B: idb}
	}
	n := p.Len()
	ret := &model.Report{
		ComparisonInfo: model.ComparisonInfo{
			AnalysisID:        a.newID(),
			CreatedAt:         a.now().UTC(),
			CacheKey:          in.CacheKey,
			A:                 p.A,
			B:                 p.B,
			Reference:         g.Reference,
			Estimator:         g.Estimator,
			Points:            n,
			NativeA:           p.NativeA,
			NativeB:           p.NativeB,
			DomainStart:       p.Grid[0],
			DomainEnd:         p.Grid[n-1],
			PositionAvailable: p.HasPosition,
			TimeAvailable:     p.HasTime,
			SegmentCount:      in.SegmentCount,
		},
		TelemetryChannels: model.TelemetryChannels{
			Distance: p.Grid,
			A:        p.ChannelsA,
			B:        p.ChannelsB,
		},
		GapResult:        *g,
		SegmentSummaries: in.Segments,
		ChannelSegments:  in.ChannelSegments,
		KeyPoints: []model.KeyPoint{
			keyPoint(model.KeyPointStart, 0, p, g),
			keyPoint(model.KeyPointEnd, n-1, p, g),
			keyPoint(model.KeyPointMinGap, g.MinIndex, p, g),
			keyPoint(model.KeyPointMaxGap, g.MaxIndex, p, g),
		},
	}
	return ret, nil
}

//nolint:whitespace // editor/linter issue
func keyPoint(
	kind model.KeyPointKind, idx int, p *model.AlignedPair, g *model.GapResult,
) model.KeyPoint {
	ret := model.KeyPoint{
		Kind:     kind,
		Index:    idx,
		Distance: p.Grid[idx],
		A:        make(map[model.Channel]float64, len(p.ChannelsA)),
		B:        make(map[model.Channel]float64, len(p.ChannelsB)),
		Gap:      make(map[model.GapChannel]float64, len(g.Channels)),
	}
	for ch, vals := range p.ChannelsA {
		ret.A[ch] = vals[idx]
	}
	for ch, vals := range p.ChannelsB {
		ret.B[ch] = vals[idx]
	}
	for ch, vals := range g.Channels {
		ret.Gap[ch] = vals[idx]
	}
	return ret
}
