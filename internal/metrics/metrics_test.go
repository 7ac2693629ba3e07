package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.GameProcessed(StatusExported)
	r.GameProcessed(StatusExported)
	r.GameProcessed(StatusFailed)
	r.EventsExported("GOAL", 3)
	r.EventsExported("PENALTY", 0)
	r.DataWarnings(2)
	r.ObserveFetch(150 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.gamesTotal.WithLabelValues(StatusExported)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gamesTotal.WithLabelValues(StatusFailed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.eventsTotal.WithLabelValues("GOAL")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.dataWarnings))
	assert.Equal(t, 1, testutil.CollectAndCount(r.fetchDuration))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder(WithNamespace("test"))
	r.GameProcessed(StatusExported)
	r.RunFinished(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "chronos.prom")
	require.NoError(t, r.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(raw)
	assert.True(t, strings.Contains(out, `test_games_total{status="exported"} 1`))
	assert.Contains(t, out, "test_last_run_timestamp_seconds 1.7e+09")
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.GameProcessed(StatusFailed)
		r.EventsExported("GOAL", 1)
		r.DataWarnings(1)
		r.ObserveFetch(time.Second)
		r.RunFinished(time.Now())
	})
	assert.NoError(t, r.WriteTextfile("/nonexistent/metrics.prom"))
}
