package store

import (
	"context"
	"errors"
	"time"

	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSyncRunNotFound = errors.New("sync run not found")
)

type SyncRun interface {
	Create(ctx context.Context, run model.SyncRun) (*model.SyncRun, error)
	Finish(ctx context.Context, id uuid.UUID, status model.SyncRunStatus, syncErr string, summary datatypes.JSON) error
	Get(ctx context.Context, id uuid.UUID) (*model.SyncRun, error)
	ListByAdapter(ctx context.Context, adapterID uuid.UUID, limit int) (model.SyncRunList, error)
}

type SyncRunStore struct {
	db *gorm.DB
}

var _ SyncRun = (*SyncRunStore)(nil)

func NewSyncRun(db *gorm.DB) SyncRun {
	return &SyncRunStore{db: db}
}

func (s *SyncRunStore) Create(ctx context.Context, run model.SyncRun) (*model.SyncRun, error) {
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *SyncRunStore) Finish(ctx context.Context, id uuid.UUID, status model.SyncRunStatus, syncErr string, summary datatypes.JSON) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&model.SyncRun{}).Where("id = ?", id).Updates(map[string]any{
		"status":      status,
		"error":       syncErr,
		"summary":     summary,
		"finished_at": &now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSyncRunNotFound
	}
	return nil
}

func (s *SyncRunStore) Get(ctx context.Context, id uuid.UUID) (*model.SyncRun, error) {
	var run model.SyncRun
	if err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSyncRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

func (s *SyncRunStore) ListByAdapter(ctx context.Context, adapterID uuid.UUID, limit int) (model.SyncRunList, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs model.SyncRunList
	err := s.db.WithContext(ctx).
		Where("adapter_id = ?", adapterID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
