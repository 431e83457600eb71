package loader

import (
	"encoding/json"
	"io"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

type (
	lapFile struct {
		Session string   `json:"session"`
		Driver  string   `json:"driver"`
		Lap     int      `json:"lap"`
		Samples []sample `json:"samples"`
	}
	sample struct {
		Distance *float64 `json:"distance"`
		Speed    *float64 `json:"speed"`
		Time     *float64 `json:"time,omitempty"`
		X        *float64 `json:"x,omitempty"`
		Y        *float64 `json:"y,omitempty"`
		Throttle *float64 `json:"throttle,omitempty"`
		Brake    *float64 `json:"brake,omitempty"`
		Gear     *float64 `json:"gear,omitempty"`
		RPM      *float64 `json:"rpm,omitempty"`
	}
)

func (s *sample) field(ch model.Channel) *float64 {
	switch ch {
	case model.ChannelDistance:
		return s.Distance
	case model.ChannelSpeed:
		return s.Speed
	case model.ChannelTime:
		return s.Time
	case model.ChannelX:
		return s.X
	case model.ChannelY:
		return s.Y
	case model.ChannelThrottle:
		return s.Throttle
	case model.ChannelBrake:
		return s.Brake
	case model.ChannelGear:
		return s.Gear
	case model.ChannelRPM:
		return s.RPM
	}
	return nil
}

// ReadJSON reads a lap file. fallback is used if the file carries no driver.
func ReadJSON(r io.Reader, fallback model.SeriesID) (*model.Series, error) {
	var f lapFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	id := fallback
	if f.Driver != "" {
		id = model.SeriesID{Session: f.Session, Driver: f.Driver, Lap: f.Lap}
	}

	channels := map[model.Channel][]float64{}
	for _, ch := range model.AllChannels {
		present := lo.CountBy(f.Samples, func(s sample) bool { return s.field(ch) != nil })
		if present == 0 {
			continue
		}
		if present < len(f.Samples) {
			return nil, &IncompleteChannelError{
				Channel: ch, Missing: len(f.Samples) - present, Total: len(f.Samples),
			}
		}
		channels[ch] = lo.Map(f.Samples, func(s sample, _ int) float64 {
			return *s.field(ch)
		})
	}
	return model.NewSeries(id, channels)
}

// WriteJSON writes s in the format read by ReadJSON
func WriteJSON(w io.Writer, s *model.Series) error {
	id := s.ID()
	f := lapFile{Session: id.Session, Driver: id.Driver, Lap: id.Lap}
	cols := lo.SliceToMap(s.Channels(), func(ch model.Channel) (model.Channel, []float64) {
		return ch, s.Values(ch)
	})
	f.Samples = make([]sample, s.Len())
	for i := range f.Samples {
		smp := &f.Samples[i]
		targets := map[model.Channel]**float64{
			model.ChannelDistance: &smp.Distance,
			model.ChannelSpeed:    &smp.Speed,
			model.ChannelTime:     &smp.Time,
			model.ChannelX:        &smp.X,
			model.ChannelY:        &smp.Y,
			model.ChannelThrottle: &smp.Throttle,
			model.ChannelBrake:    &smp.Brake,
			model.ChannelGear:     &smp.Gear,
			model.ChannelRPM:      &smp.RPM,
		}
		for ch, vals := range cols {
			*targets[ch] = lo.ToPtr(vals[i])
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}
