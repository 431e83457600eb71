package model

import (
	"fmt"
	"math"
	"slices"
)

type Channel string

const (
	ChannelDistance Channel = "distance" // cumulative track distance in m
	ChannelTime     Channel = "time"     // elapsed session time in s
	ChannelSpeed    Channel = "speed"    // km/h
	ChannelX        Channel = "x"        // planar position in m
	ChannelY        Channel = "y"
	ChannelThrottle Channel = "throttle" // percent
	ChannelBrake    Channel = "brake"    // percent
	ChannelGear     Channel = "gear"
	ChannelRPM      Channel = "rpm"
)

// AllChannels lists every known channel in output order
var AllChannels = []Channel{
	ChannelDistance, ChannelTime, ChannelSpeed, ChannelX, ChannelY,
	ChannelThrottle, ChannelBrake, ChannelGear, ChannelRPM,
}

// OptionalChannels are carried through alignment when both series provide them
var OptionalChannels = []Channel{
	ChannelTime, ChannelX, ChannelY, ChannelThrottle, ChannelBrake, ChannelGear, ChannelRPM,
}

func (c Channel) Valid() bool {
	return slices.Contains(AllChannels, c)
}

// SeriesID identifies the lap of a driver within a session
type SeriesID struct {
	Session string `json:"session" yaml:"session"`
	Driver  string `json:"driver" yaml:"driver"`
	Lap     int    `json:"lap" yaml:"lap"`
}

func (id SeriesID) String() string {
	return fmt.Sprintf("%s/%s/lap %d", id.Session, id.Driver, id.Lap)
}

// Series holds the recorded samples of one lap as columns.
// A Series is immutable once created by NewSeries.
type Series struct {
	id       SeriesID
	channels map[Channel][]float64
}

// NewSeries validates the columns and drops samples without a finite distance.
// distance and speed are required, all channels must have the same length.
// Any other non-finite value of a kept sample is rejected with a NonFiniteValueError.
func NewSeries(id SeriesID, channels map[Channel][]float64) (*Series, error) {
	for _, req := range []Channel{ChannelDistance, ChannelSpeed} {
		if _, ok := channels[req]; !ok {
			return nil, &MissingChannelError{Series: id, Channel: req}
		}
	}
	dist := channels[ChannelDistance]
	for ch, vals := range channels {
		if !ch.Valid() {
			return nil, fmt.Errorf("series %s: %w: %q", id, ErrUnknownChannel, ch)
		}
		if len(vals) != len(dist) {
			return nil, &ChannelLengthError{
				Series: id, Channel: ch, Want: len(dist), Got: len(vals),
			}
		}
	}

	keep := make([]int, 0, len(dist))
	for i, d := range dist {
		if !math.IsNaN(d) && !math.IsInf(d, 0) {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return nil, &MissingChannelError{Series: id, Channel: ChannelDistance}
	}
	for _, ch := range AllChannels {
		vals, ok := channels[ch]
		if !ok {
			continue
		}
		for _, idx := range keep {
			if v := vals[idx]; math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &NonFiniteValueError{Series: id, Channel: ch, Index: idx, Value: v}
			}
		}
	}

	s := &Series{id: id, channels: make(map[Channel][]float64, len(channels))}
	for ch, vals := range channels {
		col := make([]float64, len(keep))
		for i, idx := range keep {
			col[i] = vals[idx]
		}
		s.channels[ch] = col
	}
	return s, nil
}

func (s *Series) ID() SeriesID {
	return s.id
}

// WithID returns a series sharing the samples of s under a different id
func (s *Series) WithID(id SeriesID) *Series {
	return &Series{id: id, channels: s.channels}
}

func (s *Series) Len() int {
	return len(s.channels[ChannelDistance])
}

func (s *Series) Has(ch Channel) bool {
	_, ok := s.channels[ch]
	return ok
}

// HasPosition is true if both planar coordinates are recorded
func (s *Series) HasPosition() bool {
	return s.Has(ChannelX) && s.Has(ChannelY)
}

// Values returns a copy of the channel data or nil if the channel is absent
func (s *Series) Values(ch Channel) []float64 {
	vals, ok := s.channels[ch]
	if !ok {
		return nil
	}
	return slices.Clone(vals)
}

// DistanceRange returns the smallest and largest recorded distance
func (s *Series) DistanceRange() (lo, hi float64) {
	dist := s.channels[ChannelDistance]
	return slices.Min(dist), slices.Max(dist)
}

// Channels returns the recorded channels in canonical order
func (s *Series) Channels() []Channel {
	ret := make([]Channel, 0, len(s.channels))
	for _, ch := range AllChannels {
		if s.Has(ch) {
			ret = append(ret, ch)
		}
	}
	return ret
}
