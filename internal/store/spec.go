package store

import (
	"context"
	"errors"

	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"gorm.io/gorm"
)

var ErrSpecNotFound = errors.New("spec not found")

// specColumns is the field set a catalog upsert overwrites on an existing
// spec row; an explicit list forces zero values through.
var specColumns = []string{
	"ram", "cpu", "disk", "transfer", "dollars_per_hr", "dollars_per_mo", "active",
}

type Spec interface {
	ListByPlan(ctx context.Context, planID uint, activeOnly bool) (model.SpecList, error)
	GetByCode(ctx context.Context, planID uint, code string) (*model.Spec, error)
	Upsert(ctx context.Context, spec model.Spec) (*model.Spec, error)
	Deactivate(ctx context.Context, id uint) error
}

type SpecStore struct {
	db *gorm.DB
}

var _ Spec = (*SpecStore)(nil)

func NewSpec(db *gorm.DB) Spec {
	return &SpecStore{db: db}
}

func (s *SpecStore) ListByPlan(ctx context.Context, planID uint, activeOnly bool) (model.SpecList, error) {
	var specs model.SpecList
	query := s.db.WithContext(ctx).Where("plan_id = ?", planID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("code ASC").Find(&specs).Error; err != nil {
		return nil, err
	}
	return specs, nil
}

func (s *SpecStore) GetByCode(ctx context.Context, planID uint, code string) (*model.Spec, error) {
	var spec model.Spec
	err := s.db.WithContext(ctx).
		Where("plan_id = ? AND code = ?", planID, code).
		First(&spec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpecNotFound
		}
		return nil, err
	}
	return &spec, nil
}

// Upsert creates the spec or overwrites the hardware attributes, prices, and
// active flag on the existing (plan, code) row.
func (s *SpecStore) Upsert(ctx context.Context, spec model.Spec) (*model.Spec, error) {
	existing, err := s.GetByCode(ctx, spec.PlanID, spec.Code)
	if errors.Is(err, ErrSpecNotFound) {
		if err := s.db.WithContext(ctx).Create(&spec).Error; err != nil {
			return nil, err
		}
		return &spec, nil
	}
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Model(existing).
		Select(specColumns).
		Updates(&spec)
	if result.Error != nil {
		return nil, result.Error
	}
	return existing, nil
}

func (s *SpecStore) Deactivate(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).
		Model(&model.Spec{}).
		Where("id = ?", id).
		Update("active", false).Error
}
