//nolint:thelper // ok for tests
package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel).Named("cache")
	l.Debug("not shown")
	l.Info("hit", String("key", "abc"), Int("points", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "hit", entry["msg"])
	assert.Equal(t, "cache", entry["logger"])
	assert.Equal(t, "abc", entry["key"])
	assert.InDelta(t, 3.0, entry["points"], 0)
}

func TestWithFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	opt, err := WithFilter("*:* -debug:store*")
	require.NoError(t, err)
	l := New(buf, DebugLevel, opt)
	l.Named("store").Debug("filtered")
	l.Named("align").Debug("kept")
	assert.NotContains(t, buf.String(), "filtered")
	assert.Contains(t, buf.String(), "kept")
}

func TestGetFromContext(t *testing.T) {
	l := DevLogger(&bytes.Buffer{}, DebugLevel)
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
	assert.Same(t, Default(), GetFromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
