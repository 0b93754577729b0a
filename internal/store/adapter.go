package store

import (
	"context"
	"errors"
	"time"

	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAdapterNotFound    = errors.New("adapter not found")
	ErrAdapterNameTaken   = errors.New("adapter name already taken")
	ErrAdapterHasChildren = errors.New("adapter still has credential fields or regions")
)

// metadataColumns is the field set the metadata reconciler is allowed to
// overwrite. An explicit column list forces zero values (false booleans,
// empty strings) through GORM's struct update.
var metadataColumns = []string{
	"api", "name", "server_nick_name", "default_region", "default_size",
	"can_reboot", "can_rename", "internal_iface", "external_iface",
	"ssh_user", "ssh_auth_method", "ssh_key_method", "bootstrap_script",
	"instructions",
}

// AdapterFilter contains optional fields for filtering adapter queries.
// nil fields are ignored (not filtered).
type AdapterFilter struct {
	UserID *uuid.UUID
	Global *bool
}

// Pagination contains options for paginated queries.
type Pagination struct {
	Limit  int
	Offset int
}

type Adapter interface {
	List(ctx context.Context, filter *AdapterFilter, pagination *Pagination) (model.AdapterList, error)
	Count(ctx context.Context, filter *AdapterFilter) (int64, error)
	Create(ctx context.Context, adapter model.Adapter) (*model.Adapter, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Adapter, error)
	GetByName(ctx context.Context, name string) (*model.Adapter, error)
	Update(ctx context.Context, adapter model.Adapter) (*model.Adapter, error)
	UpdateMetadata(ctx context.Context, adapter model.Adapter) (*model.Adapter, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ListDueForSync(ctx context.Context, now time.Time) (model.AdapterList, error)
	UpdateSyncStatus(ctx context.Context, id uuid.UUID, status model.SyncStatus, consecutiveFailures int, nextSyncAt, lastSyncedAt *time.Time) error
}

type AdapterStore struct {
	db *gorm.DB
}

var _ Adapter = (*AdapterStore)(nil)

func NewAdapter(db *gorm.DB) Adapter {
	return &AdapterStore{db: db}
}

func (s *AdapterStore) List(ctx context.Context, filter *AdapterFilter, pagination *Pagination) (model.AdapterList, error) {
	var adapters model.AdapterList
	query := s.filtered(s.db.WithContext(ctx), filter)

	// Apply consistent ordering for pagination
	query = query.Order("create_time ASC, id ASC")

	if pagination != nil {
		query = query.Limit(pagination.Limit).Offset(pagination.Offset)
	}

	if err := query.Find(&adapters).Error; err != nil {
		return nil, err
	}
	return adapters, nil
}

func (s *AdapterStore) Count(ctx context.Context, filter *AdapterFilter) (int64, error) {
	var count int64
	query := s.filtered(s.db.WithContext(ctx).Model(&model.Adapter{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *AdapterStore) filtered(query *gorm.DB, filter *AdapterFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.UserID != nil {
		query = query.Where(&model.Adapter{UserID: *filter.UserID})
	}
	if filter.Global != nil {
		query = query.Where("global = ?", *filter.Global)
	}
	return query
}

func (s *AdapterStore) Create(ctx context.Context, adapter model.Adapter) (*model.Adapter, error) {
	if err := s.db.WithContext(ctx).Clauses(clause.Returning{}).Create(&adapter).Error; err != nil {
		return nil, err
	}
	return &adapter, nil
}

func (s *AdapterStore) Get(ctx context.Context, id uuid.UUID) (*model.Adapter, error) {
	var adapter model.Adapter
	if err := s.db.WithContext(ctx).First(&adapter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdapterNotFound
		}
		return nil, err
	}
	return &adapter, nil
}

func (s *AdapterStore) GetByName(ctx context.Context, name string) (*model.Adapter, error) {
	var adapter model.Adapter
	if err := s.db.WithContext(ctx).Where(&model.Adapter{Name: name}).First(&adapter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdapterNotFound
		}
		return nil, err
	}
	return &adapter, nil
}

func (s *AdapterStore) Update(ctx context.Context, adapter model.Adapter) (*model.Adapter, error) {
	result := s.db.WithContext(ctx).Model(&adapter).Clauses(clause.Returning{}).Updates(&adapter)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAdapterNotFound
	}
	return &adapter, nil
}

// UpdateMetadata overwrites the provider-metadata field set on the adapter
// row, forcing zero values through for the capability flags.
func (s *AdapterStore) UpdateMetadata(ctx context.Context, adapter model.Adapter) (*model.Adapter, error) {
	result := s.db.WithContext(ctx).
		Model(&adapter).
		Clauses(clause.Returning{}).
		Select(metadataColumns).
		Updates(&adapter)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAdapterNotFound
	}
	return &adapter, nil
}

// Delete refuses to remove an adapter that still owns credential fields or
// regions. Catalog rows are historical records; unlinking a provider must
// not silently destroy them.
func (s *AdapterStore) Delete(ctx context.Context, id uuid.UUID) error {
	var regions, fields int64
	if err := s.db.WithContext(ctx).Model(&model.Region{}).Where("adapter_id = ?", id).Count(&regions).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&model.CredentialField{}).Where("adapter_id = ?", id).Count(&fields).Error; err != nil {
		return err
	}
	if regions > 0 || fields > 0 {
		return ErrAdapterHasChildren
	}

	result := s.db.WithContext(ctx).Delete(&model.Adapter{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdapterNotFound
	}
	return nil
}

func (s *AdapterStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var adapter model.Adapter
	err := s.db.WithContext(ctx).Select("id").Where(&model.Adapter{ID: id}).Take(&adapter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListDueForSync returns adapters with an endpoint configured whose next
// scheduled sync is unset or in the past.
func (s *AdapterStore) ListDueForSync(ctx context.Context, now time.Time) (model.AdapterList, error) {
	var adapters model.AdapterList
	err := s.db.WithContext(ctx).
		Where("endpoint <> ''").
		Where("next_sync_at IS NULL OR next_sync_at <= ?", now).
		Order("create_time ASC, id ASC").
		Find(&adapters).Error
	if err != nil {
		return nil, err
	}
	return adapters, nil
}

func (s *AdapterStore) UpdateSyncStatus(ctx context.Context, id uuid.UUID, status model.SyncStatus, consecutiveFailures int, nextSyncAt, lastSyncedAt *time.Time) error {
	updates := map[string]any{
		"sync_status":               status,
		"consecutive_sync_failures": consecutiveFailures,
		"next_sync_at":              nextSyncAt,
	}
	if lastSyncedAt != nil {
		updates["last_synced_at"] = lastSyncedAt
	}
	result := s.db.WithContext(ctx).Model(&model.Adapter{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAdapterNotFound
	}
	return nil
}
