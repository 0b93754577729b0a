package sync

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/dcm-project/hosting-adapter-manager/internal/metrics"
	"github.com/dcm-project/hosting-adapter-manager/internal/providerapi"
	"github.com/dcm-project/hosting-adapter-manager/internal/store"
	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Summary counts what one sync sweep touched. Stored on the sync run row.
type Summary struct {
	RegionsDeactivated int `json:"regions_deactivated"`
	PlansDeactivated   int `json:"plans_deactivated"`
	SpecsDeactivated   int `json:"specs_deactivated"`
	RegionsUpserted    int `json:"regions_upserted"`
	PlansUpserted      int `json:"plans_upserted"`
	SpecsUpserted      int `json:"specs_upserted"`
	CredentialFields   int `json:"credential_fields"`
	UpsertFailures     int `json:"upsert_failures"`
}

// Syncer reconciles adapters against their remote provider endpoints. One
// sweep per adapter runs at a time; concurrent PopulateConfig calls for the
// same adapter serialize on a per-adapter lock so a late deactivate pass can
// never clobber another sweep's fresh upserts.
type Syncer struct {
	store    store.Store
	client   *providerapi.Client
	schedule Schedule
	log      *zap.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewSyncer(store store.Store, client *providerapi.Client, schedule Schedule) *Syncer {
	return &Syncer{
		store:    store,
		client:   client,
		schedule: schedule,
		log:      zap.L().Named("sync"),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// PopulateConfig fetches the adapter's provider metadata and catalog and
// reconciles both into the store. Fire-and-forget: outcomes are reported
// through logs, metrics, and the adapter's sync runs. An adapter without an
// endpoint is a no-op with no network calls and no mutations.
func (s *Syncer) PopulateConfig(ctx context.Context, adapter *model.Adapter) {
	if adapter.Endpoint == "" {
		s.log.Debug("adapter has no endpoint, nothing to sync", zap.String("adapter", adapter.Name))
		return
	}

	lock := s.adapterLock(adapter.ID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	status := s.runSync(ctx, adapter)
	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	metrics.RecordSyncResult(strings.ToLower(string(status)))
}

func (s *Syncer) runSync(ctx context.Context, adapter *model.Adapter) model.SyncRunStatus {
	log := s.log.With(zap.String("adapter", adapter.Name), zap.String("endpoint", adapter.Endpoint))

	run, err := s.store.SyncRun().Create(ctx, model.SyncRun{
		AdapterID: adapter.ID,
		Status:    model.SyncRunStatusRunning,
	})
	if err != nil {
		log.Error("failed to open sync run", zap.Error(err))
		return model.SyncRunStatusFailed
	}

	summary := &Summary{}

	// The deactivate pass runs before any fetch is attempted: if the remote
	// is down or answers partially, previously-offered items must still end
	// up inactive rather than stuck active.
	if err := s.deactivateCatalog(ctx, adapter, summary); err != nil {
		log.Error("deactivate pass failed", zap.Error(err))
		return s.finish(ctx, run, adapter, model.SyncRunStatusFailed, err.Error(), summary, log)
	}

	meta, err := s.client.GetMeta(ctx, adapter.Endpoint)
	if err != nil {
		metrics.RecordFetchFailure(providerapi.PurposeMeta)
		log.Error("metadata fetch failed", zap.Error(err))
		return s.finish(ctx, run, adapter, model.SyncRunStatusFailed, err.Error(), summary, log)
	}

	applied, err := s.reconcileMetadata(ctx, adapter, meta, summary)
	if err != nil {
		log.Error("metadata reconciliation failed", zap.Error(err))
		return s.finish(ctx, run, adapter, model.SyncRunStatusFailed, err.Error(), summary, log)
	}
	if !applied {
		// The adapter is bound to a different provider identity; merging
		// this catalog would overwrite another provider's data.
		log.Warn("provider identity mismatch, sync skipped",
			zap.String("adapter_api", adapter.API),
			zap.String("meta_id", meta.ID))
		return s.finish(ctx, run, adapter, model.SyncRunStatusSkipped, "provider identity mismatch", summary, log)
	}

	catalog, err := s.client.GetCatalog(ctx, adapter.Endpoint)
	if err != nil {
		metrics.RecordFetchFailure(providerapi.PurposeCatalog)
		log.Error("catalog fetch failed", zap.Error(err))
		return s.finish(ctx, run, adapter, model.SyncRunStatusFailed, err.Error(), summary, log)
	}

	// An error envelope rides in on a 200; it aborts the sweep with no
	// upserts, which is not the same thing as an empty catalog.
	if len(catalog.Errors) > 0 {
		log.Error("provider returned catalog errors", zap.Strings("errors", catalog.Errors))
		return s.finish(ctx, run, adapter, model.SyncRunStatusFailed,
			"provider returned errors: "+strings.Join(catalog.Errors, "; "), summary, log)
	}

	s.upsertCatalog(ctx, adapter, catalog.Regions, summary, log)
	return s.finish(ctx, run, adapter, model.SyncRunStatusSucceeded, "", summary, log)
}

func (s *Syncer) finish(ctx context.Context, run *model.SyncRun, adapter *model.Adapter, status model.SyncRunStatus, syncErr string, summary *Summary, log *zap.Logger) model.SyncRunStatus {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		log.Error("failed to encode sync summary", zap.Error(err))
	}
	if err := s.store.SyncRun().Finish(ctx, run.ID, status, syncErr, summaryJSON); err != nil {
		log.Error("failed to finish sync run", zap.Error(err))
	}

	s.recordOutcome(ctx, adapter, status, log)

	if status == model.SyncRunStatusSucceeded {
		log.Info("catalog sync finished",
			zap.Int("regions", summary.RegionsUpserted),
			zap.Int("plans", summary.PlansUpserted),
			zap.Int("specs", summary.SpecsUpserted),
			zap.Int("upsert_failures", summary.UpsertFailures))
	}
	return status
}

// recordOutcome updates the adapter's sync bookkeeping: last status, failure
// streak, and when the auto-sync monitor should try again.
func (s *Syncer) recordOutcome(ctx context.Context, adapter *model.Adapter, status model.SyncRunStatus, log *zap.Logger) {
	now := time.Now()
	syncStatus := model.SyncStatusSucceeded
	consecutiveFailures := 0
	var lastSyncedAt *time.Time

	switch status {
	case model.SyncRunStatusSucceeded:
		lastSyncedAt = &now
	case model.SyncRunStatusSkipped:
		syncStatus = model.SyncStatusSkipped
	case model.SyncRunStatusFailed:
		syncStatus = model.SyncStatusFailed
		consecutiveFailures = adapter.ConsecutiveSyncFailures + 1
	}

	nextSyncAt := s.schedule.NextSyncTime(now, syncStatus, consecutiveFailures)
	if err := s.store.Adapter().UpdateSyncStatus(ctx, adapter.ID, syncStatus, consecutiveFailures, &nextSyncAt, lastSyncedAt); err != nil {
		log.Error("failed to update adapter sync status", zap.Error(err))
	}
}

// adapterLock returns the mutex guarding sweeps for one adapter. Locks are
// kept for the life of the process; the map grows with the adapter count.
func (s *Syncer) adapterLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}
