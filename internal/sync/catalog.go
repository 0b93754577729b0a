package sync

import (
	"context"
	"fmt"

	"github.com/dcm-project/hosting-adapter-manager/internal/metrics"
	"github.com/dcm-project/hosting-adapter-manager/internal/providerapi"
	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// deactivateCatalog marks the adapter's entire local tree inactive, walking
// innermost-first: every spec, then its plan, then the region. The ordering
// avoids any transient state where a parent is inactive while its children
// are still active. The upsert pass reactivates whatever the remote catalog
// still offers; anything it no longer mentions stays inactive.
func (s *Syncer) deactivateCatalog(ctx context.Context, adapter *model.Adapter, summary *Summary) error {
	regions, err := s.store.Region().ListByAdapter(ctx, adapter.ID, false)
	if err != nil {
		return fmt.Errorf("list regions: %w", err)
	}

	for _, region := range regions {
		plans, err := s.store.Plan().ListByRegion(ctx, region.ID, false)
		if err != nil {
			return fmt.Errorf("list plans for region %q: %w", region.Code, err)
		}

		for _, plan := range plans {
			specs, err := s.store.Spec().ListByPlan(ctx, plan.ID, false)
			if err != nil {
				return fmt.Errorf("list specs for plan %q: %w", plan.Code, err)
			}

			for _, spec := range specs {
				if err := s.store.Spec().Deactivate(ctx, spec.ID); err != nil {
					return fmt.Errorf("deactivate spec %q: %w", spec.Code, err)
				}
				summary.SpecsDeactivated++
			}

			if err := s.store.Plan().Deactivate(ctx, plan.ID); err != nil {
				return fmt.Errorf("deactivate plan %q: %w", plan.Code, err)
			}
			summary.PlansDeactivated++
		}

		if err := s.store.Region().Deactivate(ctx, region.ID); err != nil {
			return fmt.Errorf("deactivate region %q: %w", region.Code, err)
		}
		summary.RegionsDeactivated++
	}

	return nil
}

// upsertCatalog applies the fetched tree outermost-first, creating or
// refreshing each region, plan, and spec by its natural key with active set.
// A failed upsert is logged and counted, then the sweep moves on. The failed
// item's subtree is skipped with it because children need the parent's row ID.
func (s *Syncer) upsertCatalog(ctx context.Context, adapter *model.Adapter, regions []providerapi.CatalogRegion, summary *Summary, log *zap.Logger) {
	for _, regionData := range regions {
		region, err := s.store.Region().Upsert(ctx, model.Region{
			AdapterID: adapter.ID,
			Code:      regionData.ID,
			Name:      regionData.Name,
			Active:    true,
		})
		if err != nil {
			summary.UpsertFailures++
			log.Error("region upsert failed, skipping its plans",
				zap.String("region", regionData.ID), zap.Error(err))
			continue
		}
		summary.RegionsUpserted++
		metrics.ItemsUpserted.With(prometheus.Labels{"level": "region"}).Inc()

		for _, planData := range regionData.Plans {
			plan, err := s.store.Plan().Upsert(ctx, model.Plan{
				RegionID: region.ID,
				Code:     planData.ID,
				Name:     planData.Name,
				Active:   true,
			})
			if err != nil {
				summary.UpsertFailures++
				log.Error("plan upsert failed, skipping its specs",
					zap.String("region", regionData.ID),
					zap.String("plan", planData.ID), zap.Error(err))
				continue
			}
			summary.PlansUpserted++
			metrics.ItemsUpserted.With(prometheus.Labels{"level": "plan"}).Inc()

			for _, specData := range planData.Specs {
				_, err := s.store.Spec().Upsert(ctx, model.Spec{
					PlanID:       plan.ID,
					Code:         specData.ID,
					RAM:          specData.RAM,
					CPU:          specData.CPU,
					Disk:         specData.Disk,
					Transfer:     int(specData.Transfer),
					DollarsPerHr: specData.DollarsPerHr,
					DollarsPerMo: specData.DollarsPerMo,
					Active:       true,
				})
				if err != nil {
					summary.UpsertFailures++
					log.Error("spec upsert failed",
						zap.String("region", regionData.ID),
						zap.String("plan", planData.ID),
						zap.String("spec", specData.ID), zap.Error(err))
					continue
				}
				summary.SpecsUpserted++
				metrics.ItemsUpserted.With(prometheus.Labels{"level": "spec"}).Inc()
			}
		}
	}
}
