package sync

import (
	"math"
	"time"

	"github.com/dcm-project/hosting-adapter-manager/internal/config"
	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
)

// Schedule decides when an adapter should next be synced automatically.
type Schedule struct {
	SyncEvery              time.Duration
	MaxConsecutiveFailures int
	BaseBackoffInterval    time.Duration
	MaxBackoffInterval     time.Duration
}

func ScheduleFromConfig(cfg *config.AutoSyncConfig) Schedule {
	return Schedule{
		SyncEvery:              cfg.SyncEvery,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
		BaseBackoffInterval:    cfg.BaseBackoffInterval,
		MaxBackoffInterval:     cfg.MaxBackoffInterval,
	}
}

// NextSyncTime determines when the next sync should occur.
// Succeeded and skipped adapters resync on the regular cadence; a skipped
// adapter stays mismatched no matter how often it is retried.
// Exponential backoff for failing adapters once the failure streak passes
// MaxConsecutiveFailures.
// Formula: min(MaxBackoff, BaseInterval * 2^(failures - MaxConsecutiveFailures))
func (s Schedule) NextSyncTime(now time.Time, status model.SyncStatus, consecutiveFailures int) time.Time {
	if status != model.SyncStatusFailed {
		return now.Add(s.SyncEvery)
	}

	exponent := consecutiveFailures - s.MaxConsecutiveFailures
	if exponent < 0 {
		exponent = 0
	}

	const maxExponent = 10
	if exponent > maxExponent {
		exponent = maxExponent
	}

	backoffMultiplier := math.Pow(2, float64(exponent))
	backoffDuration := time.Duration(float64(s.BaseBackoffInterval) * backoffMultiplier)

	if backoffDuration > s.MaxBackoffInterval {
		backoffDuration = s.MaxBackoffInterval
	}

	return now.Add(backoffDuration)
}
