package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/config"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

func series(t *testing.T, id model.SeriesID, speed float64) *model.Series {
	t.Helper()
	s, err := model.NewSeries(id, map[model.Channel][]float64{
		model.ChannelDistance: {0, 100, 200},
		model.ChannelSpeed:    {speed, speed, speed},
	})
	require.NoError(t, err)
	return s
}

//nolint:funlen // ok for tests
func TestKey(t *testing.T) {
	a := series(t, model.SeriesID{Session: "s1", Driver: "alice", Lap: 3}, 200)
	b := series(t, model.SeriesID{Session: "s1", Driver: "bob", Lap: 3}, 180)
	base := NewKey(a, b, config.DefaultAnalysis())

	t.Run("deterministic", func(t *testing.T) {
		other := NewKey(a, b, config.DefaultAnalysis())
		assert.Equal(t, base.String(), other.String())
		assert.Equal(t, base.Hash(), other.Hash())
		assert.Len(t, base.Hash(), 64)
	})

	t.Run("order of series matters", func(t *testing.T) {
		assert.NotEqual(t, base.Hash(), NewKey(b, a, config.DefaultAnalysis()).Hash())
	})

	changes := []struct {
		name   string
		modify func(c *config.Analysis)
	}{
		{"segments", func(c *config.Analysis) { c.SegmentCount = 7 }},
		{"estimator", func(c *config.Analysis) { c.Estimator = model.EstimatorPath }},
		{"primary", func(c *config.Analysis) { c.Primary = model.GapTimeDiff }},
		{"points", func(c *config.Analysis) { c.MaxPoints = 500 }},
		{"upsampling", func(c *config.Analysis) { c.AllowUpsampling = true }},
		{"kind threshold", func(c *config.Analysis) {
			c.Thresholds.ByKind[model.KindDistance] = 1
		}},
		{"channel threshold", func(c *config.Analysis) {
			c.Thresholds.ByChannel[model.GapBrakeDiff] = 2
		}},
	}
	for _, tt := range changes {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultAnalysis()
			tt.modify(&cfg)
			assert.NotEqual(t, base.Hash(), NewKey(a, b, cfg).Hash())
		})
	}

	t.Run("separators in ids", func(t *testing.T) {
		k1 := NewKey(a.WithID(model.SeriesID{Session: "a/b", Driver: "c"}), b,
			config.DefaultAnalysis())
		k2 := NewKey(a.WithID(model.SeriesID{Session: "a", Driver: "b/c"}), b,
			config.DefaultAnalysis())
		assert.NotEqual(t, k1.Hash(), k2.Hash())
	})

	t.Run("same ids with different samples", func(t *testing.T) {
		other := NewKey(
			series(t, a.ID(), 100),
			series(t, b.ID(), 150),
			config.DefaultAnalysis())
		assert.Equal(t, base.A, other.A)
		assert.Equal(t, base.B, other.B)
		assert.NotEqual(t, base.Hash(), other.Hash())
	})

	t.Run("same samples under the same ids", func(t *testing.T) {
		other := NewKey(series(t, a.ID(), 200), series(t, b.ID(), 180),
			config.DefaultAnalysis())
		assert.Equal(t, base.Hash(), other.Hash())
	})
}

func TestDigest(t *testing.T) {
	id := model.SeriesID{Driver: "lap.csv"}
	s := series(t, id, 200)
	assert.Len(t, Digest(s), 64)
	assert.Equal(t, Digest(s), Digest(series(t, id, 200)))
	assert.NotEqual(t, Digest(s), Digest(series(t, id, 201)))

	withTime, err := model.NewSeries(id, map[model.Channel][]float64{
		model.ChannelDistance: {0, 100, 200},
		model.ChannelSpeed:    {200, 200, 200},
		model.ChannelTime:     {0, 1.8, 3.6},
	})
	require.NoError(t, err)
	assert.NotEqual(t, Digest(s), Digest(withTime), "optional channels count")
}
