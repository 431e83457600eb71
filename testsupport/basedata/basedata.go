package basedata

import (
	"log"
	"math"
	"time"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

// SampleTrackLength is the length of the circular test track in m
const SampleTrackLength = 1000.0

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

func SampleID(driver string, lap int) model.SeriesID {
	return model.SeriesID{Session: "testsession", Driver: driver, Lap: lap}
}

type (
	lapOption func(l *lapData)
	lapData   struct {
		from, to       float64
		points         int
		speed          func(d float64) float64
		withTime       bool
		withPosition   bool
		positionOffset float64
		withPedals     bool
	}
)

// WithRange sets the covered track distance
func WithRange(from, to float64) lapOption {
	return func(l *lapData) {
		l.from, l.to = from, to
	}
}

func WithPoints(n int) lapOption {
	return func(l *lapData) {
		l.points = n
	}
}

// WithSpeed sets the speed in km/h as function of the track distance
func WithSpeed(f func(d float64) float64) lapOption {
	return func(l *lapData) {
		l.speed = f
	}
}

// WithConstantSpeed is a shortcut for WithSpeed with a constant value
func WithConstantSpeed(kmh float64) lapOption {
	return WithSpeed(func(float64) float64 { return kmh })
}

// WithTime adds the elapsed time derived from distance and speed
func WithTime() lapOption {
	return func(l *lapData) {
		l.withTime = true
	}
}

// WithPosition places the car on a circle of SampleTrackLength.
// offset is a lateral offset in m (positive means outside).
func WithPosition(offset float64) lapOption {
	return func(l *lapData) {
		l.withPosition = true
		l.positionOffset = offset
	}
}

// WithPedals adds throttle, brake, gear and rpm channels
func WithPedals() lapOption {
	return func(l *lapData) {
		l.withPedals = true
	}
}

// SampleLap creates a lap series with equally spaced distance samples
func SampleLap(id model.SeriesID, opts ...lapOption) *model.Series {
	ld := &lapData{
		from:   0,
		to:     SampleTrackLength,
		points: 101,
		speed:  func(float64) float64 { return 180 },
	}
	for _, opt := range opts {
		opt(ld)
	}
	channels := map[model.Channel][]float64{
		model.ChannelDistance: make([]float64, ld.points),
		model.ChannelSpeed:    make([]float64, ld.points),
	}
	step := (ld.to - ld.from) / float64(ld.points-1)
	for i := range ld.points {
		d := ld.from + float64(i)*step
		if i == ld.points-1 {
			d = ld.to
		}
		channels[model.ChannelDistance][i] = d
		channels[model.ChannelSpeed][i] = ld.speed(d)
	}
	if ld.withTime {
		t := make([]float64, ld.points)
		for i := 1; i < ld.points; i++ {
			avg := (channels[model.ChannelSpeed][i-1] + channels[model.ChannelSpeed][i]) / 2
			t[i] = t[i-1] + step/(avg/3.6)
		}
		channels[model.ChannelTime] = t
	}
	if ld.withPosition {
		r := SampleTrackLength / (2 * math.Pi)
		xs := make([]float64, ld.points)
		ys := make([]float64, ld.points)
		for i, d := range channels[model.ChannelDistance] {
			angle := d / r
			xs[i] = (r + ld.positionOffset) * math.Cos(angle)
			ys[i] = (r + ld.positionOffset) * math.Sin(angle)
		}
		channels[model.ChannelX] = xs
		channels[model.ChannelY] = ys
	}
	if ld.withPedals {
		throttle := make([]float64, ld.points)
		brake := make([]float64, ld.points)
		gear := make([]float64, ld.points)
		rpm := make([]float64, ld.points)
		for i, v := range channels[model.ChannelSpeed] {
			throttle[i] = math.Min(100, v/3)
			brake[i] = math.Max(0, 100-throttle[i]*2)
			gear[i] = math.Min(6, math.Floor(v/50)+1)
			rpm[i] = 4000 + 40*v
		}
		channels[model.ChannelThrottle] = throttle
		channels[model.ChannelBrake] = brake
		channels[model.ChannelGear] = gear
		channels[model.ChannelRPM] = rpm
	}

	ret, err := model.NewSeries(id, channels)
	if err != nil {
		log.Fatalf("SampleLap: %v\n", err)
	}
	return ret
}

// RawSeries creates a series from distance and speed values only
func RawSeries(id model.SeriesID, dist, speed []float64) *model.Series {
	ret, err := model.NewSeries(id, map[model.Channel][]float64{
		model.ChannelDistance: dist,
		model.ChannelSpeed:    speed,
	})
	if err != nil {
		log.Fatalf("RawSeries: %v\n", err)
	}
	return ret
}
