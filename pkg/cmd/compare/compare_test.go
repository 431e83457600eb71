package compare

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/config"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/loader"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/setup"
	"github.com/mpapenbr/iracelog-gap-analysis/testsupport/basedata"
)

func lapFiles(t *testing.T) (a, b string) {
	t.Helper()
	dir := t.TempDir()
	a = filepath.Join(dir, "a.json")
	b = filepath.Join(dir, "b.csv")

	fa, err := os.Create(a)
	require.NoError(t, err)
	defer fa.Close()
	require.NoError(t, loader.WriteJSON(fa, basedata.SampleLap(basedata.SampleID("A1", 1),
		basedata.WithSpeed(func(d float64) float64 { return 160 + d/25 }),
		basedata.WithTime(), basedata.WithPosition(0))))

	fb, err := os.Create(b)
	require.NoError(t, err)
	defer fb.Close()
	require.NoError(t, loader.WriteCSV(fb, basedata.SampleLap(basedata.SampleID("B1", 1),
		basedata.WithConstantSpeed(180), basedata.WithTime(), basedata.WithPosition(1))))
	return a, b
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCompareCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCompare_JSON(t *testing.T) {
	a, b := lapFiles(t)
	out, err := execute(t, a, b, "--no-cache", "-o", "json", "--segments", "4")
	require.NoError(t, err)

	var rep model.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "A1", rep.ComparisonInfo.A.Driver)
	// csv files carry no id, the driver is taken from the file name
	assert.Equal(t, "b", rep.ComparisonInfo.B.Driver)
	assert.Equal(t, model.EstimatorTime, rep.GapResult.Estimator)
	assert.Len(t, rep.SegmentSummaries, 4)
}

func TestCompare_SelectAndPlot(t *testing.T) {
	a, b := lapFiles(t)
	plot := filepath.Join(t.TempDir(), "gap.png")
	out, err := execute(t, a, b, "--no-cache",
		"--select", "$.gap_result.estimator",
		"--plot", plot, "--plot-channels", "speed_diff,distance_gap")
	require.NoError(t, err)
	assert.Equal(t, "\"time\"\n", out)
	_, err = os.Stat(plot)
	assert.NoError(t, err)
}

func TestCompare_Cached(t *testing.T) {
	config.CacheBackend = "sqlite"
	config.CacheDir = t.TempDir()
	defer func() { config.CacheBackend, config.CacheDir = "", "" }()

	a, b := lapFiles(t)
	first, err := execute(t, a, b, "-o", "json")
	require.NoError(t, err)
	second, err := execute(t, a, b, "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, first, second, "second run is served from the store")

	s, _, err := setup.Open(config.CacheFromFlags(), log.Default())
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func writeCSVLap(t *testing.T, path string, kmh float64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, loader.WriteCSV(f, basedata.SampleLap(basedata.SampleID("x", 1),
		basedata.WithConstantSpeed(kmh))))
}

func TestCompare_CachedSameFileNames(t *testing.T) {
	config.CacheBackend = "sqlite"
	config.CacheDir = t.TempDir()
	defer func() { config.CacheBackend, config.CacheDir = "", "" }()

	dir := t.TempDir()
	speeds := map[string]float64{"s1/a": 200, "s1/b": 180, "s2/a": 100, "s2/b": 150}
	for sub, kmh := range speeds {
		writeCSVLap(t, filepath.Join(dir, sub, "lap.csv"), kmh)
	}
	meanSpeedDiff := func(session string) float64 {
		out, err := execute(t,
			filepath.Join(dir, session, "a", "lap.csv"),
			filepath.Join(dir, session, "b", "lap.csv"),
			"-o", "json")
		require.NoError(t, err)
		var rep model.Report
		require.NoError(t, json.Unmarshal([]byte(out), &rep))
		return rep.GapResult.Stats[model.GapSpeedDiff].Mean
	}

	assert.InDelta(t, 20, meanSpeedDiff("s1"), 1e-9)
	assert.InDelta(t, -50, meanSpeedDiff("s2"), 1e-9)
	assert.InDelta(t, 20, meanSpeedDiff("s1"), 1e-9)
}

func TestCompare_Errors(t *testing.T) {
	a, b := lapFiles(t)
	tests := []struct {
		name string
		args []string
	}{
		{"one file", []string{a}},
		{"unknown format", []string{a, b, "--no-cache", "-o", "xml"}},
		{"bad estimator", []string{a, b, "--no-cache", "--estimator", "guess"}},
		{"bad channel slope", []string{a, b, "--no-cache", "--channel-slope", "rpm_diff=1"}},
		{"missing file", []string{a, filepath.Join(t.TempDir(), "none.json"), "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
