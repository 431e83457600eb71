package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
	"github.com/mpapenbr/iracelog-gap-analysis/testsupport/basedata"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "lap.json", `{
  "session": "s1", "driver": "alice", "lap": 4,
  "samples": [
    {"distance": 0, "speed": 100, "gear": 2},
    {"distance": 10, "speed": 110, "gear": 3}
  ]}`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.SeriesID{Session: "s1", Driver: "alice", Lap: 4}, s.ID())
	assert.Equal(t,
		[]model.Channel{model.ChannelDistance, model.ChannelSpeed, model.ChannelGear},
		s.Channels())
	assert.Equal(t, []float64{2, 3}, s.Values(model.ChannelGear))
}

func TestLoad_JSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			"incomplete channel",
			`{"driver":"d","samples":[{"distance":0,"speed":1,"time":0},{"distance":1,"speed":1}]}`,
			func(t *testing.T, err error) {
				t.Helper()
				var target *IncompleteChannelError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, model.ChannelTime, target.Channel)
				assert.Equal(t, 1, target.Missing)
			},
		},
		{
			"missing speed",
			`{"driver":"d","samples":[{"distance":0},{"distance":1}]}`,
			func(t *testing.T, err error) {
				t.Helper()
				var target *model.MissingChannelError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, model.ChannelSpeed, target.Channel)
			},
		},
		{
			"unknown field",
			`{"driver":"d","samples":[{"distance":0,"speed":1,"steering":3}]}`,
			func(t *testing.T, err error) {
				t.Helper()
				require.ErrorContains(t, err, "steering")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "lap.json", tt.content))
			tt.check(t, err)
		})
	}
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "bob.csv", strings.Join([]string{
		"# exported lap",
		"distance, speed, throttle",
		"0, 100, 50",
		"10, 110, 100",
		"",
	}, "\n"))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.SeriesID{Driver: "bob"}, s.ID())
	assert.Equal(t, []float64{0, 10}, s.Values(model.ChannelDistance))
	assert.Equal(t, []float64{50, 100}, s.Values(model.ChannelThrottle))

	id := model.SeriesID{Session: "s", Driver: "b", Lap: 2}
	s, err = Load(path, WithID(id))
	require.NoError(t, err)
	assert.Equal(t, id, s.ID())
}

func TestLoad_CSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"unknown column", "distance,speed,steering\n0,1,2\n", model.ErrUnknownChannel},
		{"duplicate column", "distance,speed,speed\n0,1,2\n", ErrDuplicateColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "lap.csv", tt.content))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("bad number", func(t *testing.T) {
		_, err := Load(writeFile(t, "lap.csv", "distance,speed\n0,fast\n"))
		assert.ErrorContains(t, err, "line 2 column speed")
	})
	t.Run("short row", func(t *testing.T) {
		_, err := Load(writeFile(t, "lap.csv", "distance,speed\n0\n"))
		assert.Error(t, err)
	})
}

func TestLoad_Format(t *testing.T) {
	_, err := Load(writeFile(t, "lap.txt", "distance,speed\n0,1\n"))
	require.ErrorIs(t, err, ErrUnknownFormat)

	s, err := Load(writeFile(t, "lap.txt", "distance,speed\n0,1\n"), WithFormat(FormatCSV))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestWriteRead_RoundTrip(t *testing.T) {
	orig := basedata.SampleLap(basedata.SampleID("A1", 2), basedata.WithPoints(21),
		basedata.WithSpeed(func(d float64) float64 { return 120 + d/7 }),
		basedata.WithTime(), basedata.WithPosition(1.5), basedata.WithPedals())

	check := func(t *testing.T, got *model.Series) {
		t.Helper()
		assert.Equal(t, orig.Channels(), got.Channels())
		for _, ch := range orig.Channels() {
			assert.Equal(t, orig.Values(ch), got.Values(ch), "channel %s", ch)
		}
	}

	t.Run("json", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, WriteJSON(&sb, orig))
		got, err := ReadJSON(strings.NewReader(sb.String()), model.SeriesID{})
		require.NoError(t, err)
		assert.Equal(t, orig.ID(), got.ID())
		check(t, got)
	})
	t.Run("csv", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, WriteCSV(&sb, orig))
		got, err := ReadCSV(strings.NewReader(sb.String()), orig.ID())
		require.NoError(t, err)
		check(t, got)
	})
}
