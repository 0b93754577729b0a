package service

import (
	"encoding/json"
	"time"

	"github.com/dcm-project/hosting-adapter-manager/internal/api/v1alpha1"
	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"github.com/google/uuid"
)

// ModelToAdapter converts a database model to an API response type
func ModelToAdapter(m *model.Adapter) *v1alpha1.Adapter {
	id := m.ID
	userID := m.UserID
	return &v1alpha1.Adapter{
		Id:              &id,
		UserId:          &userID,
		Name:            m.Name,
		Endpoint:        m.Endpoint,
		Api:             m.API,
		ServerNickName:  m.ServerNickName,
		DefaultRegion:   m.DefaultRegion,
		DefaultSize:     m.DefaultSize,
		CanReboot:       m.CanReboot,
		CanRename:       m.CanRename,
		InternalIface:   m.InternalIface,
		ExternalIface:   m.ExternalIface,
		SSHUser:         m.SSHUser,
		SSHAuthMethod:   m.SSHAuthMethod,
		SSHKeyMethod:    m.SSHKeyMethod,
		BootstrapScript: m.BootstrapScript,
		Instructions:    m.Instructions,
		UnlinkCode:      m.UnlinkCode,
		Global:          m.Global,
		SyncStatus:      string(m.SyncStatus),
		LastSyncedAt:    m.LastSyncedAt,
		NextSyncAt:      m.NextSyncAt,
		CreateTime:      ptrTime(m.CreateTime),
		UpdateTime:      ptrTime(m.UpdateTime),
	}
}

// AdapterToModel converts an API request to a database model
func AdapterToModel(req *v1alpha1.Adapter, id uuid.UUID, userID uuid.UUID) model.Adapter {
	return model.Adapter{
		ID:              id,
		UserID:          userID,
		Name:            req.Name,
		Endpoint:        req.Endpoint,
		API:             req.Api,
		ServerNickName:  req.ServerNickName,
		DefaultRegion:   req.DefaultRegion,
		DefaultSize:     req.DefaultSize,
		CanReboot:       req.CanReboot,
		CanRename:       req.CanRename,
		InternalIface:   req.InternalIface,
		ExternalIface:   req.ExternalIface,
		SSHUser:         req.SSHUser,
		SSHAuthMethod:   req.SSHAuthMethod,
		SSHKeyMethod:    req.SSHKeyMethod,
		BootstrapScript: req.BootstrapScript,
		Instructions:    req.Instructions,
		Global:          req.Global,
	}
}

// ModelToCatalog converts preloaded region rows into the nested API tree.
func ModelToCatalog(regions model.RegionList) *v1alpha1.Catalog {
	catalog := &v1alpha1.Catalog{Regions: make([]v1alpha1.Region, 0, len(regions))}
	for _, region := range regions {
		apiRegion := v1alpha1.Region{
			Code:   region.Code,
			Name:   region.Name,
			Active: region.Active,
			Plans:  make([]v1alpha1.Plan, 0, len(region.Plans)),
		}
		for _, plan := range region.Plans {
			apiPlan := v1alpha1.Plan{
				Code:   plan.Code,
				Name:   plan.Name,
				Active: plan.Active,
				Specs:  make([]v1alpha1.Spec, 0, len(plan.Specs)),
			}
			for _, spec := range plan.Specs {
				apiPlan.Specs = append(apiPlan.Specs, v1alpha1.Spec{
					Code:         spec.Code,
					RAM:          spec.RAM,
					CPU:          spec.CPU,
					Disk:         spec.Disk,
					Transfer:     spec.Transfer,
					DollarsPerHr: spec.DollarsPerHr,
					DollarsPerMo: spec.DollarsPerMo,
					Active:       spec.Active,
				})
			}
			apiRegion.Plans = append(apiRegion.Plans, apiPlan)
		}
		catalog.Regions = append(catalog.Regions, apiRegion)
	}
	return catalog
}

func ModelToCredentialField(m *model.CredentialField) v1alpha1.CredentialField {
	return v1alpha1.CredentialField{Key: m.Key, Label: m.Label}
}

func ModelToSyncRun(m *model.SyncRun) v1alpha1.SyncRun {
	return v1alpha1.SyncRun{
		Id:         m.ID,
		AdapterId:  m.AdapterID,
		Status:     string(m.Status),
		Error:      m.Error,
		Summary:    json.RawMessage(m.Summary),
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}

// Helper functions for pointer conversions

func ptrTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
