package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hosting_adapter_manager"

var (
	// SyncTotal counts finished catalog syncs by outcome
	// (succeeded, failed, skipped).
	SyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_sync_total",
			Help:      "Total number of catalog sync attempts by result",
		},
		[]string{"result"},
	)

	// FetchFailures counts remote fetch failures by purpose (meta, catalog).
	FetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fetch_failures_total",
			Help:      "Total number of failed provider API fetches by purpose",
		},
		[]string{"purpose"},
	)

	// SyncDuration tracks end-to-end sync duration.
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_sync_duration_seconds",
			Help:      "Duration of catalog syncs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// ItemsUpserted counts catalog rows written by level (region, plan, spec).
	ItemsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_items_upserted_total",
			Help:      "Total number of catalog items upserted by level",
		},
		[]string{"level"},
	)
)

func RecordSyncResult(result string) {
	SyncTotal.With(prometheus.Labels{"result": result}).Inc()
}

func RecordFetchFailure(purpose string) {
	FetchFailures.With(prometheus.Labels{"purpose": purpose}).Inc()
}
