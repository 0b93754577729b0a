package store

import (
	"context"
	"errors"

	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"gorm.io/gorm"
)

var ErrPlanNotFound = errors.New("plan not found")

type Plan interface {
	ListByRegion(ctx context.Context, regionID uint, activeOnly bool) (model.PlanList, error)
	GetByCode(ctx context.Context, regionID uint, code string) (*model.Plan, error)
	Upsert(ctx context.Context, plan model.Plan) (*model.Plan, error)
	Deactivate(ctx context.Context, id uint) error
}

type PlanStore struct {
	db *gorm.DB
}

var _ Plan = (*PlanStore)(nil)

func NewPlan(db *gorm.DB) Plan {
	return &PlanStore{db: db}
}

func (s *PlanStore) ListByRegion(ctx context.Context, regionID uint, activeOnly bool) (model.PlanList, error) {
	var plans model.PlanList
	query := s.db.WithContext(ctx).Where("region_id = ?", regionID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("code ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *PlanStore) GetByCode(ctx context.Context, regionID uint, code string) (*model.Plan, error) {
	var plan model.Plan
	err := s.db.WithContext(ctx).
		Where("region_id = ? AND code = ?", regionID, code).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Upsert creates the plan or overwrites name and active on the existing
// (region, code) row.
func (s *PlanStore) Upsert(ctx context.Context, plan model.Plan) (*model.Plan, error) {
	existing, err := s.GetByCode(ctx, plan.RegionID, plan.Code)
	if errors.Is(err, ErrPlanNotFound) {
		if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
			return nil, err
		}
		return &plan, nil
	}
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Model(existing).
		Select("name", "active").
		Updates(&model.Plan{Name: plan.Name, Active: plan.Active})
	if result.Error != nil {
		return nil, result.Error
	}
	return existing, nil
}

func (s *PlanStore) Deactivate(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).
		Model(&model.Plan{}).
		Where("id = ?", id).
		Update("active", false).Error
}
