package model

// AlignedPair holds two series resampled onto one shared, strictly increasing
// distance grid. Channel maps only contain channels present in both series.
type AlignedPair struct {
	A           SeriesID
	B           SeriesID
	Grid        []float64
	ChannelsA   map[Channel][]float64
	ChannelsB   map[Channel][]float64
	HasTime     bool
	HasPosition bool
	// NativeA and NativeB are the sample counts after sort and dedup
	NativeA int
	NativeB int
}

func (p *AlignedPair) Len() int {
	return len(p.Grid)
}

// Channels returns the aligned channels in canonical order (distance excluded)
func (p *AlignedPair) Channels() []Channel {
	ret := make([]Channel, 0, len(p.ChannelsA))
	for _, ch := range AllChannels {
		if _, ok := p.ChannelsA[ch]; ok {
			ret = append(ret, ch)
		}
	}
	return ret
}
