package observability

import (
	"testing"
	"time"
)

func TestMetrics_RecordAndQuery(t *testing.T) {
	c := NewMetricsCollector(100)

	c.Record(MetricPathLength, 3, Labels{"goal_id": "g1"})
	c.Record(MetricPathLength, 5, nil)
	c.Record(MetricSolveMillis, 12, nil)

	points := c.Query(MetricPathLength, time.Time{})
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if points[0].Labels["goal_id"] != "g1" {
		t.Errorf("labels = %v", points[0].Labels)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestMetrics_Counters(t *testing.T) {
	c := NewMetricsCollector(10)

	c.Increment("snapshots")
	c.Increment("snapshots")
	c.Increment("conflicts")

	if c.Counter("snapshots") != 2 {
		t.Errorf("snapshots = %d", c.Counter("snapshots"))
	}
	snap := c.Counters()
	if snap["conflicts"] != 1 {
		t.Errorf("counters = %v", snap)
	}
	// The copy must not alias internal state.
	snap["conflicts"] = 99
	if c.Counter("conflicts") != 1 {
		t.Error("Counters() leaked internal map")
	}
}

func TestMetrics_RingBuffer(t *testing.T) {
	c := NewMetricsCollector(3)

	for i := 0; i < 5; i++ {
		c.Record(MetricBFSExpanded, float64(i), nil)
	}
	points := c.Query(MetricBFSExpanded, time.Time{})
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3 (ring capacity)", len(points))
	}
	if points[0].Value != 2 || points[2].Value != 4 {
		t.Errorf("oldest entries not dropped: %v", points)
	}
}

func TestMetrics_Summarize(t *testing.T) {
	c := NewMetricsCollector(100)
	for _, v := range []float64{1, 2, 3, 4} {
		c.Record(MetricSolveMillis, v, nil)
	}

	s := c.Summarize(MetricSolveMillis, time.Time{})
	if s.Count != 4 || s.Sum != 10 || s.Mean != 2.5 || s.Min != 1 || s.Max != 4 {
		t.Errorf("summary = %+v", s)
	}

	if empty := c.Summarize(MetricErrors, time.Time{}); empty.Count != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestMetrics_Reset(t *testing.T) {
	c := NewMetricsCollector(10)
	c.Record(MetricSnapshots, 1, nil)
	c.Increment("x")

	c.Reset()
	if c.Len() != 0 || c.Counter("x") != 0 {
		t.Error("reset did not clear state")
	}
}
