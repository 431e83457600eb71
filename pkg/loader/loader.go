// Package loader reads lap telemetry files into model.Series.
//
// JSON files hold one lap:
//
//	{"session": "s", "driver": "d", "lap": 3,
//	 "samples": [{"distance": 0, "speed": 180, "time": 0, ...}, ...]}
//
// CSV files have a header line with channel names. distance and speed are
// required, the other columns are optional. Column names must match the
// channel names exactly.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown telemetry file format")

// IncompleteChannelError is returned if an optional channel is present
// in some samples only.
type IncompleteChannelError struct {
	Channel model.Channel
	Missing int
	Total   int
}

func (e *IncompleteChannelError) Error() string {
	return fmt.Sprintf("channel %s missing in %d of %d samples", e.Channel, e.Missing, e.Total)
}

type (
	Option func(c *loadConfig)
	loadConfig struct {
		format Format
		id     *model.SeriesID
	}
)

// WithFormat overrides the format derived from the file extension
func WithFormat(f Format) Option {
	return func(c *loadConfig) {
		c.format = f
	}
}

// WithID overrides the series id found in the file
func WithID(id model.SeriesID) Option {
	return func(c *loadConfig) {
		c.id = &id
	}
}

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads the telemetry file at path.
// Without an id in the file (or WithID) the driver is taken from the file name.
func Load(path string, opts ...Option) (*model.Series, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.format == "" {
		var err error
		if cfg.format, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fallback := model.SeriesID{Driver: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	var s *model.Series
	switch cfg.format {
	case FormatJSON:
		s, err = ReadJSON(f, fallback)
	case FormatCSV:
		s, err = ReadCSV(f, fallback)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, cfg.format)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if cfg.id != nil {
		return s.WithID(*cfg.id), nil
	}
	return s, nil
}
