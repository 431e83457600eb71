package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

var ErrDuplicateColumn = errors.New("duplicate column")

// ReadCSV reads samples with a header line of channel names.
// Empty cells are not allowed.
func ReadCSV(r io.Reader, id model.SeriesID) (*model.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := lo.Map(header, func(h string, _ int) model.Channel {
		return model.Channel(strings.TrimSpace(h))
	})
	for _, ch := range cols {
		if !ch.Valid() {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownChannel, ch)
		}
	}
	if dups := lo.FindDuplicates(cols); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrDuplicateColumn, dups)
	}

	channels := lo.SliceToMap(cols, func(ch model.Channel) (model.Channel, []float64) {
		return ch, []float64{}
	})
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		for i, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, cols[i], err)
			}
			channels[cols[i]] = append(channels[cols[i]], v)
		}
	}
	return model.NewSeries(id, channels)
}

// WriteCSV writes s in the format read by ReadCSV
func WriteCSV(w io.Writer, s *model.Series) error {
	cw := csv.NewWriter(w)
	chs := s.Channels()
	if err := cw.Write(lo.Map(chs, func(ch model.Channel, _ int) string { return string(ch) })); err != nil {
		return err
	}
	cols := lo.Map(chs, func(ch model.Channel, _ int) []float64 { return s.Values(ch) })
	for i := range s.Len() {
		rec := lo.Map(cols, func(col []float64, _ int) string {
			return strconv.FormatFloat(col[i], 'g', -1, 64)
		})
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
