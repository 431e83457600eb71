package publish

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
	"github.com/mpapenbr/iracelog-gap-analysis/testsupport/tcnats"
)

func TestNewNatsPublisher_NoSubject(t *testing.T) {
	_, err := NewNatsPublisher(nil, "", log.Default())
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestNatsPublisher_Publish(t *testing.T) {
	nc := tcnats.SetupTestNats(t)
	sub, err := nc.SubscribeSync("iga.test.reports")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	p, err := NewNatsPublisher(nc, "iga.test.reports", log.Default())
	require.NoError(t, err)
	rep := &model.Report{
		ComparisonInfo: model.ComparisonInfo{AnalysisID: "id-1", CacheKey: "abc", Points: 3},
		GapResult: model.GapResult{
			Reference: model.ReferenceAMinusB,
			Channels:  map[model.GapChannel][]float64{model.GapSpeedDiff: {-10, 5, 20}},
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Publish(ctx, rep))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "id-1", msg.Header.Get(HeaderAnalysisID))
	assert.Equal(t, "abc", msg.Header.Get(HeaderCacheKey))
	var got model.Report
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, []float64{-10, 5, 20}, got.GapResult.Channels[model.GapSpeedDiff])
}
