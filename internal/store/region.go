package store

import (
	"context"
	"errors"

	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRegionNotFound = errors.New("region not found")

type Region interface {
	ListByAdapter(ctx context.Context, adapterID uuid.UUID, activeOnly bool) (model.RegionList, error)
	ListWithCatalog(ctx context.Context, adapterID uuid.UUID, activeOnly bool) (model.RegionList, error)
	GetByCode(ctx context.Context, adapterID uuid.UUID, code string) (*model.Region, error)
	Upsert(ctx context.Context, region model.Region) (*model.Region, error)
	Deactivate(ctx context.Context, id uint) error
}

type RegionStore struct {
	db *gorm.DB
}

var _ Region = (*RegionStore)(nil)

func NewRegion(db *gorm.DB) Region {
	return &RegionStore{db: db}
}

func (s *RegionStore) ListByAdapter(ctx context.Context, adapterID uuid.UUID, activeOnly bool) (model.RegionList, error) {
	var regions model.RegionList
	query := s.db.WithContext(ctx).Where("adapter_id = ?", adapterID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("code ASC").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

// ListWithCatalog returns the adapter's regions with their plan and spec
// subtrees preloaded. The read path for the catalog API; the reconciler
// walks levels individually instead.
func (s *RegionStore) ListWithCatalog(ctx context.Context, adapterID uuid.UUID, activeOnly bool) (model.RegionList, error) {
	var regions model.RegionList
	query := s.db.WithContext(ctx).Where("adapter_id = ?", adapterID)
	if activeOnly {
		query = query.Where("active = ?", true).
			Preload("Plans", "active = ?", true).
			Preload("Plans.Specs", "active = ?", true)
	} else {
		query = query.Preload("Plans").Preload("Plans.Specs")
	}
	if err := query.Order("code ASC").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (s *RegionStore) GetByCode(ctx context.Context, adapterID uuid.UUID, code string) (*model.Region, error) {
	var region model.Region
	// Positional conditions: a struct condition would drop an empty code.
	err := s.db.WithContext(ctx).
		Where("adapter_id = ? AND code = ?", adapterID, code).
		First(&region).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegionNotFound
		}
		return nil, err
	}
	return &region, nil
}

// Upsert creates the region or, when the (adapter, code) natural key already
// exists, overwrites its name and active flag. The numeric primary key stays
// stable across upserts.
func (s *RegionStore) Upsert(ctx context.Context, region model.Region) (*model.Region, error) {
	existing, err := s.GetByCode(ctx, region.AdapterID, region.Code)
	if errors.Is(err, ErrRegionNotFound) {
		if err := s.db.WithContext(ctx).Create(&region).Error; err != nil {
			return nil, err
		}
		return &region, nil
	}
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Model(existing).
		Select("name", "active").
		Updates(&model.Region{Name: region.Name, Active: region.Active})
	if result.Error != nil {
		return nil, result.Error
	}
	return existing, nil
}

func (s *RegionStore) Deactivate(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).
		Model(&model.Region{}).
		Where("id = ?", id).
		Update("active", false).Error
}
