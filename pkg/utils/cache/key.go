package cache

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/config"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/utils"
)

// Key identifies an analysis result. The order of A and B is significant.
// DigestA and DigestB cover the sample data, ids alone are not unique.
type Key struct {
	A, B            model.SeriesID
	DigestA         string
	DigestB         string
	SegmentCount    int
	Estimator       model.Estimator
	Primary         model.GapChannel
	MaxPoints       int
	AllowUpsampling bool
	Thresholds      config.Thresholds
}

func NewKey(a, b *model.Series, cfg config.Analysis) Key {
	return Key{
		A:               a.ID(),
		B:               b.ID(),
		DigestA:         Digest(a),
		DigestB:         Digest(b),
		SegmentCount:    cfg.SegmentCount,
		Estimator:       cfg.Estimator,
		Primary:         cfg.Primary,
		MaxPoints:       cfg.MaxPoints,
		AllowUpsampling: cfg.AllowUpsampling,
		Thresholds:      cfg.Thresholds,
	}
}

// String returns the canonical form of the key
func (k Key) String() string {
	parts := []string{
		"a=" + seriesPart(k.A),
		"b=" + seriesPart(k.B),
		"data-a=" + k.DigestA,
		"data-b=" + k.DigestB,
		"segments=" + strconv.Itoa(k.SegmentCount),
		"estimator=" + string(k.Estimator),
		"primary=" + string(k.Primary),
		"points=" + strconv.Itoa(k.MaxPoints),
		"upsampling=" + strconv.FormatBool(k.AllowUpsampling),
		"kinds=" + sortedPairs(k.Thresholds.ByKind),
		"channels=" + sortedPairs(k.Thresholds.ByChannel),
	}
	return strings.Join(parts, "|")
}

// Hash returns the hex sha256 of the canonical form
func (k Key) Hash() string {
	return utils.HashKey(k.String())
}

// Digest returns the hex sha256 of the recorded channels of s in canonical order
func Digest(s *model.Series) string {
	var b strings.Builder
	for _, ch := range s.Channels() {
		b.WriteString(string(ch))
		b.WriteByte(':')
		for i, v := range s.Values(ch) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte(';')
	}
	return utils.HashKey(b.String())
}

func seriesPart(id model.SeriesID) string {
	return fmt.Sprintf("%q/%q/%d", id.Session, id.Driver, id.Lap)
}

func sortedPairs[K ~string](m map[K]float64) string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return strings.Join(lo.Map(keys, func(k K, _ int) string {
		return string(k) + ":" + strconv.FormatFloat(m[k], 'g', -1, 64)
	}), ",")
}
