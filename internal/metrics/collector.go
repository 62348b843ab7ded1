// Package metrics is a small Prometheus-text metrics collector. It renders
// the exposition format directly instead of pulling in client_golang.
package metrics

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Collector is the process-wide collector.
var Collector = NewCollector()

type MetricsCollector struct {
	counters   sync.Map // name -> *Counter
	histograms sync.Map // name -> *Histogram
	startTime  time.Time
}

func NewCollector() *MetricsCollector {
	return &MetricsCollector{startTime: time.Now()}
}

func (c *MetricsCollector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

// Counter is a monotonically increasing counter.
type Counter struct {
	name  string
	help  string
	value atomic.Int64
}

func (c *Counter) Inc()         { c.value.Add(1) }
func (c *Counter) Add(n int64)  { c.value.Add(n) }
func (c *Counter) Value() int64 { return c.value.Load() }

// Histogram tracks the distribution of observed values.
type Histogram struct {
	name    string
	help    string
	mu      sync.Mutex
	count   int64
	sum     float64
	buckets []histBucket
}

type histBucket struct {
	le    float64
	count int64
}

func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += v
	for i := range h.buckets {
		if v <= h.buckets[i].le {
			h.buckets[i].count++
		}
	}
}

func (c *MetricsCollector) Counter(name, help string) *Counter {
	if v, ok := c.counters.Load(name); ok {
		return v.(*Counter)
	}
	ctr := &Counter{name: name, help: help}
	actual, _ := c.counters.LoadOrStore(name, ctr)
	return actual.(*Counter)
}

func (c *MetricsCollector) Histogram(name, help string, buckets []float64) *Histogram {
	if v, ok := c.histograms.Load(name); ok {
		return v.(*Histogram)
	}
	sort.Float64s(buckets)
	hb := make([]histBucket, len(buckets))
	for i, b := range buckets {
		hb[i] = histBucket{le: b}
	}
	h := &Histogram{name: name, help: help, buckets: hb}
	actual, _ := c.histograms.LoadOrStore(name, h)
	return actual.(*Histogram)
}

// Handler renders all metrics in Prometheus text exposition format.
func (c *MetricsCollector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		var sb strings.Builder
		fmt.Fprintf(&sb, "# HELP coinbot_uptime_seconds Time since start in seconds\n")
		fmt.Fprintf(&sb, "# TYPE coinbot_uptime_seconds gauge\n")
		fmt.Fprintf(&sb, "coinbot_uptime_seconds %d\n\n", int64(c.Uptime().Seconds()))

		c.counters.Range(func(_, value any) bool {
			ctr := value.(*Counter)
			fmt.Fprintf(&sb, "# HELP %s %s\n# TYPE %s counter\n%s %d\n",
				ctr.name, ctr.help, ctr.name, ctr.name, ctr.Value())
			return true
		})

		c.histograms.Range(func(_, value any) bool {
			h := value.(*Histogram)
			h.mu.Lock()
			defer h.mu.Unlock()
			fmt.Fprintf(&sb, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name)
			for _, b := range h.buckets {
				le := fmt.Sprintf("%g", b.le)
				if math.IsInf(b.le, 1) {
					le = "+Inf"
				}
				fmt.Fprintf(&sb, "%s_bucket{le=%q} %d\n", h.name, le, b.count)
			}
			fmt.Fprintf(&sb, "%s_count %d\n%s_sum %f\n", h.name, h.count, h.name, h.sum)
			return true
		})

		fmt.Fprint(w, sb.String())
	}
}

// Metrics used across the application.
var (
	TurnsTotal       = Collector.Counter("coinbot_turns_total", "Total chat turns handled")
	LLMRequestsTotal = Collector.Counter("coinbot_llm_requests_total", "Total model endpoint requests")
	ToolExecutions   = Collector.Counter("coinbot_tool_executions_total", "Total market tool executions")
	UpstreamErrors   = Collector.Counter("coinbot_upstream_errors_total", "Total quote service failures")
	CacheHits        = Collector.Counter("coinbot_cache_hits_total", "Total market cache hits")

	LLMLatency = Collector.Histogram("coinbot_llm_latency_seconds", "Model request latency in seconds",
		[]float64{0.5, 1, 2, 5, 10, 30, 60, 120})
	MarketLatency = Collector.Histogram("coinbot_market_latency_seconds", "Quote service latency in seconds",
		[]float64{0.1, 0.25, 0.5, 1, 2, 5, 10})
)
