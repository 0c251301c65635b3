package models

import "time"

// SystemMetrics is the in-process instrumentation summary.
type SystemMetrics struct {
	CacheHitRatio               float64   `json:"cache_hit_ratio"`
	CacheHits                   uint64    `json:"cache_hits"`
	CacheMisses                 uint64    `json:"cache_misses"`
	RequestsTotal               uint64    `json:"requests_total"`
	AverageRequestDurationMs    float64   `json:"average_request_duration_ms"`
	StoreQueryCount             uint64    `json:"store_query_count"`
	AverageStoreQueryDurationMs float64   `json:"average_store_query_duration_ms"`
	ClassificationsTotal        uint64    `json:"classifications_total"`
	ClassificationWriteFailures uint64    `json:"classification_write_failures"`
	SuppressedMetricsTotal      uint64    `json:"suppressed_metrics_total"`
	Goroutines                  int       `json:"goroutines"`
	GeneratedAt                 time.Time `json:"generated_at"`
}
