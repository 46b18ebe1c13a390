package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets/:id", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/tickets/:id", "GET", 200, 30*time.Millisecond)
	m.RecordError("/tickets/:id", "GET", "NOT_FOUND")

	snap := m.Snapshot()

	assert.Equal(t, int64(2), snap.Requests["/tickets/:id|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMS["/tickets/:id|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/tickets/:id|GET|NOT_FOUND"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")

	assert.Empty(t, m.Snapshot().Requests)
}
