//nolint:funlen // ok for tests
package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testID = SeriesID{Session: "s1", Driver: "A1", Lap: 3}

func TestNewSeries(t *testing.T) {
	t.Run("drops non finite distances", func(t *testing.T) {
		s, err := NewSeries(testID, map[Channel][]float64{
			ChannelDistance: {0, math.NaN(), 20, math.Inf(1)},
			ChannelSpeed:    {100, 110, 120, 130},
			ChannelTime:     {0, 1, 2, 3},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, []float64{100, 120}, s.Values(ChannelSpeed))
		assert.Equal(t, []float64{0, 2}, s.Values(ChannelTime))
	})

	t.Run("rejects non finite channel values", func(t *testing.T) {
		tests := []struct {
			channel Channel
			value   float64
		}{
			{ChannelSpeed, math.NaN()},
			{ChannelTime, math.Inf(1)},
			{ChannelX, math.Inf(-1)},
			{ChannelThrottle, math.NaN()},
		}
		for _, tt := range tests {
			t.Run(string(tt.channel), func(t *testing.T) {
				channels := map[Channel][]float64{
					ChannelDistance: {0, 10, 20},
					ChannelSpeed:    {100, 110, 120},
				}
				col := []float64{1, 2, 3}
				col[2] = tt.value
				channels[tt.channel] = col
				if tt.channel == ChannelX {
					channels[ChannelY] = []float64{0, 0, 0}
				}
				_, err := NewSeries(testID, channels)
				var nfe *NonFiniteValueError
				require.ErrorAs(t, err, &nfe)
				assert.Equal(t, tt.channel, nfe.Channel)
				assert.Equal(t, 2, nfe.Index)
				assert.Equal(t, testID, nfe.Series)
			})
		}
	})

	t.Run("non finite values of dropped samples are ignored", func(t *testing.T) {
		s, err := NewSeries(testID, map[Channel][]float64{
			ChannelDistance: {0, math.NaN(), 20},
			ChannelSpeed:    {100, math.NaN(), 120},
		})
		require.NoError(t, err)
		assert.Equal(t, []float64{100, 120}, s.Values(ChannelSpeed))
	})

	t.Run("missing speed", func(t *testing.T) {
		_, err := NewSeries(testID, map[Channel][]float64{ChannelDistance: {0, 1}})
		var mce *MissingChannelError
		require.ErrorAs(t, err, &mce)
		assert.Equal(t, ChannelSpeed, mce.Channel)
		assert.Equal(t, testID, mce.Series)
		assert.Contains(t, err.Error(), "s1/A1/lap 3")
	})

	t.Run("missing distance", func(t *testing.T) {
		_, err := NewSeries(testID, map[Channel][]float64{ChannelSpeed: {0, 1}})
		var mce *MissingChannelError
		require.ErrorAs(t, err, &mce)
		assert.Equal(t, ChannelDistance, mce.Channel)
	})

	t.Run("no finite distance", func(t *testing.T) {
		_, err := NewSeries(testID, map[Channel][]float64{
			ChannelDistance: {math.NaN()},
			ChannelSpeed:    {1},
		})
		var mce *MissingChannelError
		require.ErrorAs(t, err, &mce)
		assert.Equal(t, ChannelDistance, mce.Channel)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewSeries(testID, map[Channel][]float64{
			ChannelDistance: {0, 1, 2},
			ChannelSpeed:    {1, 2},
		})
		var cle *ChannelLengthError
		require.ErrorAs(t, err, &cle)
		assert.Equal(t, 3, cle.Want)
		assert.Equal(t, 2, cle.Got)
	})

	t.Run("unknown channel", func(t *testing.T) {
		_, err := NewSeries(testID, map[Channel][]float64{
			ChannelDistance: {0},
			ChannelSpeed:    {1},
			"steering":      {0},
		})
		assert.True(t, errors.Is(err, ErrUnknownChannel))
	})
}

func TestSeries_Accessors(t *testing.T) {
	src := map[Channel][]float64{
		ChannelDistance: {30, 10, 20},
		ChannelSpeed:    {1, 2, 3},
		ChannelX:        {0, 0, 0},
	}
	s, err := NewSeries(testID, src)
	require.NoError(t, err)

	lo, hi := s.DistanceRange()
	assert.Equal(t, 10.0, lo)
	assert.Equal(t, 30.0, hi)
	assert.False(t, s.HasPosition(), "y is missing")
	assert.Equal(t, []Channel{ChannelDistance, ChannelSpeed, ChannelX}, s.Channels())
	assert.Nil(t, s.Values(ChannelBrake))

	// neither the source map nor returned values alias the internal state
	src[ChannelSpeed][0] = 99
	v := s.Values(ChannelSpeed)
	v[1] = 99
	assert.Equal(t, []float64{1, 2, 3}, s.Values(ChannelSpeed))
}
