package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounter(t *testing.T) {
	c := NewCollector()
	ctr := c.Counter("test_total", "help")
	ctr.Inc()
	ctr.Add(2)
	if ctr.Value() != 3 {
		t.Errorf("value = %d", ctr.Value())
	}
	// Same name returns the same counter.
	if c.Counter("test_total", "help") != ctr {
		t.Error("counter registration is not idempotent")
	}
}

func TestHistogram(t *testing.T) {
	c := NewCollector()
	h := c.Histogram("test_seconds", "help", []float64{1, 5})
	h.Observe(0.5)
	h.Observe(3)
	h.Observe(10)

	if h.count != 3 {
		t.Errorf("count = %d", h.count)
	}
	if h.buckets[0].count != 1 || h.buckets[1].count != 2 {
		t.Errorf("buckets = %+v", h.buckets)
	}
}

func TestHandler_Exposition(t *testing.T) {
	c := NewCollector()
	c.Counter("coinbot_test_total", "A test counter").Inc()
	c.Histogram("coinbot_test_seconds", "A test histogram", []float64{1}).Observe(0.3)

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"# TYPE coinbot_uptime_seconds gauge",
		"# TYPE coinbot_test_total counter",
		"coinbot_test_total 1",
		"# TYPE coinbot_test_seconds histogram",
		`coinbot_test_seconds_bucket{le="1"} 1`,
		"coinbot_test_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q:\n%s", want, body)
		}
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
}
