package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	summaryCacheHitTotal  atomic.Uint64
	summaryCacheMissTotal atomic.Uint64
	inferenceFailedTotal  atomic.Uint64
	chatTurnsTotal        atomic.Uint64
	chatFallbacksTotal    atomic.Uint64

	warmJobsReceivedTotal             atomic.Uint64
	warmJobsCompletedTotal            atomic.Uint64
	warmJobsFailedTotal               atomic.Uint64
	warmJobsDeletedUnrecoverableTotal atomic.Uint64

	summarizeDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncSummaryCacheHit increments the cache hit counter.
func IncSummaryCacheHit() {
	summaryCacheHitTotal.Add(1)
}

// IncSummaryCacheMiss increments the cache miss counter.
func IncSummaryCacheMiss() {
	summaryCacheMissTotal.Add(1)
}

// IncInferenceFailed increments the failed inference call counter.
func IncInferenceFailed() {
	inferenceFailedTotal.Add(1)
}

// IncChatTurns increments the recorded chat turn counter.
func IncChatTurns() {
	chatTurnsTotal.Add(1)
}

// IncChatFallbacks increments the apology-answer counter.
func IncChatFallbacks() {
	chatFallbacksTotal.Add(1)
}

// ObserveSummarizeDurationMs records a summarize duration in milliseconds.
func ObserveSummarizeDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	summarizeDuration.Observe(value)
}

// IncWarmJobsReceived increments the warm-up jobs received counter.
func IncWarmJobsReceived() {
	warmJobsReceivedTotal.Add(1)
}

// IncWarmJobsCompleted increments the warm-up jobs completed counter.
func IncWarmJobsCompleted() {
	warmJobsCompletedTotal.Add(1)
}

// IncWarmJobsFailed increments the warm-up jobs failed counter.
func IncWarmJobsFailed() {
	warmJobsFailedTotal.Add(1)
}

// IncWarmJobsDeletedUnrecoverable counts malformed jobs deleted without processing.
func IncWarmJobsDeletedUnrecoverable() {
	warmJobsDeletedUnrecoverableTotal.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "summary_cache_hit_total", "Total summary cache hits", summaryCacheHitTotal.Load())
	writeCounter(&buf, "summary_cache_miss_total", "Total summary cache misses", summaryCacheMissTotal.Load())
	writeCounter(&buf, "inference_failed_total", "Total failed inference calls", inferenceFailedTotal.Load())
	writeCounter(&buf, "chat_turns_total", "Total recorded chat turns", chatTurnsTotal.Load())
	writeCounter(&buf, "chat_fallbacks_total", "Total chat apology fallbacks", chatFallbacksTotal.Load())
	writeCounter(&buf, "warm_jobs_received_total", "Total warm-up jobs received", warmJobsReceivedTotal.Load())
	writeCounter(&buf, "warm_jobs_completed_total", "Total warm-up jobs completed", warmJobsCompletedTotal.Load())
	writeCounter(&buf, "warm_jobs_failed_total", "Total warm-up jobs failed", warmJobsFailedTotal.Load())
	writeCounter(&buf, "warm_jobs_deleted_unrecoverable_total", "Total malformed warm-up jobs deleted", warmJobsDeletedUnrecoverableTotal.Load())
	writeHistogram(&buf, "summarize_duration_ms", "Summarize duration in milliseconds", summarizeDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
