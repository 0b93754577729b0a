package autosync

import (
	"context"
	"sync"
	"time"

	"github.com/dcm-project/hosting-adapter-manager/internal/config"
	"github.com/dcm-project/hosting-adapter-manager/internal/store"
	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"go.uber.org/zap"
)

// Syncer is the part of the catalog syncer the monitor drives.
type Syncer interface {
	PopulateConfig(ctx context.Context, adapter *model.Adapter)
}

// Monitor periodically runs catalog syncs for adapters whose next sync time
// has come. Scheduling (regular cadence plus failure backoff) is written to
// the adapter rows by the syncer itself, so manually triggered syncs and
// this loop share one schedule.
type Monitor struct {
	store    store.Adapter
	syncer   Syncer
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	log      *zap.Logger
}

// NewMonitor creates a new auto-sync monitor.
func NewMonitor(adapterStore store.Adapter, syncer Syncer, cfg *config.AutoSyncConfig) *Monitor {
	return &Monitor{
		store:    adapterStore,
		syncer:   syncer,
		interval: cfg.Interval,
		stopCh:   make(chan struct{}),
		log:      zap.L().Named("autosync"),
	}
}

// Start begins the auto-sync monitoring loop
func (m *Monitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.run(ctx)
}

// Stop gracefully stops the auto-sync monitor
func (m *Monitor) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Run immediately on start
	m.SyncDueAdapters(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.SyncDueAdapters(ctx)
		}
	}
}

// SyncDueAdapters syncs all adapters that are due, one at a time. The
// syncer's per-adapter lock keeps manual triggers from interleaving with
// this loop.
func (m *Monitor) SyncDueAdapters(ctx context.Context) {
	now := time.Now()
	adapters, err := m.store.ListDueForSync(ctx, now)
	if err != nil {
		m.log.Error("failed to list adapters due for sync", zap.Error(err))
		return
	}

	for i := range adapters {
		select {
		case <-ctx.Done():
			return
		default:
			m.syncer.PopulateConfig(ctx, &adapters[i])
		}
	}
}
