package store

import (
	"context"

	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CredentialField interface {
	ListByAdapter(ctx context.Context, adapterID uuid.UUID) (model.CredentialFieldList, error)
	Upsert(ctx context.Context, field model.CredentialField) error
}

type CredentialFieldStore struct {
	db *gorm.DB
}

var _ CredentialField = (*CredentialFieldStore)(nil)

func NewCredentialField(db *gorm.DB) CredentialField {
	return &CredentialFieldStore{db: db}
}

func (s *CredentialFieldStore) ListByAdapter(ctx context.Context, adapterID uuid.UUID) (model.CredentialFieldList, error) {
	var fields model.CredentialFieldList
	err := s.db.WithContext(ctx).
		Where("adapter_id = ?", adapterID).
		Order("key ASC").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// Upsert inserts the field or refreshes its label when the (adapter, key)
// natural key already exists. Sync never deletes credential fields.
func (s *CredentialFieldStore) Upsert(ctx context.Context, field model.CredentialField) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "adapter_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"label", "update_time"}),
	}).Create(&field).Error
}
