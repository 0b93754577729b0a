package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dcm-project/hosting-adapter-manager/internal/api/v1alpha1"
	"github.com/dcm-project/hosting-adapter-manager/internal/store"
	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 100
	maxPageSize     = 100

	defaultSyncRunLimit = 20
	maxSyncRunLimit     = 100
)

// Syncer runs one catalog sync for an adapter. Implemented by sync.Syncer;
// kept as an interface so the service tests can stub it.
type Syncer interface {
	PopulateConfig(ctx context.Context, adapter *model.Adapter)
}

// ListResult contains the result of listing adapters with pagination info.
type ListResult struct {
	Adapters      []v1alpha1.Adapter
	NextPageToken string
}

// AdapterService handles business logic for adapter management.
type AdapterService struct {
	store  store.Store
	syncer Syncer
	log    *zap.Logger
}

// NewAdapterService creates a new AdapterService with the given store and syncer.
func NewAdapterService(store store.Store, syncer Syncer) *AdapterService {
	return &AdapterService{
		store:  store,
		syncer: syncer,
		log:    zap.L().Named("service"),
	}
}

// CreateAdapter creates a new adapter. The unlink code is generated on
// insert and returned once in the response. Returns ErrCodeConflict when the
// name or the requested ID is already taken.
func (s *AdapterService) CreateAdapter(ctx context.Context, req *v1alpha1.Adapter) (*v1alpha1.Adapter, error) {
	if req.Name == "" {
		return nil, NewValidationError("adapter name must not be empty")
	}

	if _, err := s.store.Adapter().GetByName(ctx, req.Name); err == nil {
		return nil, NewConflictError(fmt.Sprintf("name '%s' is already taken", req.Name))
	} else if !errors.Is(err, store.ErrAdapterNotFound) {
		return nil, err
	}

	adapterID, err := s.resolveAdapterID(ctx, req.Id)
	if err != nil {
		return nil, err
	}

	var userID uuid.UUID
	if req.UserId != nil {
		userID = *req.UserId
	}

	adapterModel := AdapterToModel(req, adapterID, userID)
	created, err := s.store.Adapter().Create(ctx, adapterModel)
	if err != nil {
		return nil, err
	}

	s.log.Info("created adapter", zap.String("name", created.Name), zap.String("id", created.ID.String()))
	return ModelToAdapter(created), nil
}

// resolveAdapterID returns the requested ID after checking for conflicts, or generates a new one.
func (s *AdapterService) resolveAdapterID(ctx context.Context, requestedID *uuid.UUID) (uuid.UUID, error) {
	if requestedID == nil {
		return uuid.New(), nil
	}

	exists, err := s.store.Adapter().ExistsByID(ctx, *requestedID)
	if err != nil {
		return uuid.UUID{}, err
	}
	if exists {
		return uuid.UUID{}, NewConflictError(fmt.Sprintf("adapter with ID '%s' already exists", *requestedID))
	}

	return *requestedID, nil
}

// GetAdapter retrieves an adapter by ID. Returns ErrCodeNotFound if not found.
func (s *AdapterService) GetAdapter(ctx context.Context, adapterID string) (*v1alpha1.Adapter, error) {
	adapter, err := s.getAdapterModel(ctx, adapterID)
	if err != nil {
		return nil, err
	}
	return ModelToAdapter(adapter), nil
}

// ListAdapters returns adapters with pagination support per AEP-158.
func (s *AdapterService) ListAdapters(ctx context.Context, userID string, global *bool, requestedPageSize int, pageToken string) (*ListResult, error) {
	// Validate and normalize page size per AEP-158
	pageSize := requestedPageSize
	if pageSize < 0 {
		return nil, NewValidationError("max_page_size must not be negative")
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// Decode page token to get offset
	offset := 0
	if pageToken != "" {
		decoded, err := decodePageToken(pageToken)
		if err != nil {
			return nil, NewValidationError("invalid page_token")
		}
		offset = decoded
	}

	// Build filter
	filter := &store.AdapterFilter{Global: global}
	if userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return nil, NewValidationError("invalid user_id format")
		}
		filter.UserID = &id
	}

	// Get total count for next page calculation
	total, err := s.store.Adapter().Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Fetch adapters with pagination
	pagination := &store.Pagination{Limit: pageSize, Offset: offset}
	adapters, err := s.store.Adapter().List(ctx, filter, pagination)
	if err != nil {
		return nil, err
	}

	// Convert to API types
	result := make([]v1alpha1.Adapter, len(adapters))
	for i, a := range adapters {
		result[i] = *ModelToAdapter(&a)
	}

	// Calculate next page token
	var nextPageToken string
	nextOffset := offset + len(adapters)
	if int64(nextOffset) < total {
		nextPageToken = encodePageToken(nextOffset)
	}

	return &ListResult{
		Adapters:      result,
		NextPageToken: nextPageToken,
	}, nil
}

func encodePageToken(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func decodePageToken(token string) (int, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(decoded))
}

// UpdateAdapter updates an existing adapter. Returns ErrCodeNotFound if the
// adapter doesn't exist, or ErrCodeConflict if the new name is already taken.
// The provider binding (api), the unlink code, and the sync bookkeeping are
// not writable through this path.
func (s *AdapterService) UpdateAdapter(ctx context.Context, adapterID string, update *v1alpha1.Adapter) (*v1alpha1.Adapter, error) {
	existing, err := s.getAdapterModel(ctx, adapterID)
	if err != nil {
		return nil, err
	}

	if update.Name == "" {
		return nil, NewValidationError("adapter name must not be empty")
	}

	// Check for name conflict
	if update.Name != existing.Name {
		other, err := s.store.Adapter().GetByName(ctx, update.Name)
		if err != nil && !errors.Is(err, store.ErrAdapterNotFound) {
			return nil, err
		}
		if other != nil && other.ID != existing.ID {
			return nil, NewConflictError(fmt.Sprintf("name '%s' is already taken", update.Name))
		}
	}

	existing.Name = update.Name
	existing.Endpoint = update.Endpoint
	existing.ServerNickName = update.ServerNickName
	existing.DefaultRegion = update.DefaultRegion
	existing.DefaultSize = update.DefaultSize
	existing.InternalIface = update.InternalIface
	existing.ExternalIface = update.ExternalIface
	existing.SSHUser = update.SSHUser
	existing.SSHAuthMethod = update.SSHAuthMethod
	existing.SSHKeyMethod = update.SSHKeyMethod
	existing.BootstrapScript = update.BootstrapScript
	existing.Instructions = update.Instructions
	existing.Global = update.Global
	existing.UpdateTime = time.Now()

	updated, err := s.store.Adapter().Update(ctx, *existing)
	if err != nil {
		return nil, err
	}

	s.log.Info("updated adapter", zap.String("name", updated.Name), zap.String("id", updated.ID.String()))
	return ModelToAdapter(updated), nil
}

// DeleteAdapter removes an adapter by ID. Returns ErrCodeNotFound if not
// found and ErrCodeConflict while the adapter still owns credential fields
// or regions.
func (s *AdapterService) DeleteAdapter(ctx context.Context, adapterID string) error {
	id, err := uuid.Parse(adapterID)
	if err != nil {
		return NewValidationError("invalid adapter ID format")
	}

	err = s.store.Adapter().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrAdapterNotFound) {
			return NewNotFoundError(fmt.Sprintf("adapter %s not found", adapterID))
		}
		if errors.Is(err, store.ErrAdapterHasChildren) {
			return NewConflictError(fmt.Sprintf("adapter %s still has credential fields or regions", adapterID))
		}
		return err
	}

	s.log.Info("deleted adapter", zap.String("id", adapterID))
	return nil
}

// GetCatalog returns the adapter's locally persisted region/plan/spec tree.
// Inactive entries are filtered out unless includeInactive is set.
func (s *AdapterService) GetCatalog(ctx context.Context, adapterID string, includeInactive bool) (*v1alpha1.Catalog, error) {
	adapter, err := s.getAdapterModel(ctx, adapterID)
	if err != nil {
		return nil, err
	}

	regions, err := s.store.Region().ListWithCatalog(ctx, adapter.ID, !includeInactive)
	if err != nil {
		return nil, err
	}
	return ModelToCatalog(regions), nil
}

// ListCredentialFields returns the credential inputs the provider requires.
func (s *AdapterService) ListCredentialFields(ctx context.Context, adapterID string) (*v1alpha1.CredentialFieldList, error) {
	adapter, err := s.getAdapterModel(ctx, adapterID)
	if err != nil {
		return nil, err
	}

	fields, err := s.store.CredentialField().ListByAdapter(ctx, adapter.ID)
	if err != nil {
		return nil, err
	}

	result := &v1alpha1.CredentialFieldList{CredentialFields: make([]v1alpha1.CredentialField, 0, len(fields))}
	for i := range fields {
		result.CredentialFields = append(result.CredentialFields, ModelToCredentialField(&fields[i]))
	}
	return result, nil
}

// ListSyncRuns returns the most recent sync attempts for the adapter.
func (s *AdapterService) ListSyncRuns(ctx context.Context, adapterID string, limit int) (*v1alpha1.SyncRunList, error) {
	if limit < 0 {
		return nil, NewValidationError("limit must not be negative")
	}
	if limit == 0 {
		limit = defaultSyncRunLimit
	}
	if limit > maxSyncRunLimit {
		limit = maxSyncRunLimit
	}

	adapter, err := s.getAdapterModel(ctx, adapterID)
	if err != nil {
		return nil, err
	}

	runs, err := s.store.SyncRun().ListByAdapter(ctx, adapter.ID, limit)
	if err != nil {
		return nil, err
	}

	result := &v1alpha1.SyncRunList{SyncRuns: make([]v1alpha1.SyncRun, 0, len(runs))}
	for i := range runs {
		result.SyncRuns = append(result.SyncRuns, ModelToSyncRun(&runs[i]))
	}
	return result, nil
}

// TriggerSync starts a catalog sync for the adapter in the background. The
// sweep is fire-and-forget; its outcome lands in the adapter's sync runs.
func (s *AdapterService) TriggerSync(ctx context.Context, adapterID string) (*v1alpha1.SyncAccepted, error) {
	adapter, err := s.getAdapterModel(ctx, adapterID)
	if err != nil {
		return nil, err
	}

	// Detached from the request context: the HTTP response returns
	// immediately while the sweep keeps running.
	go s.syncer.PopulateConfig(context.Background(), adapter)

	s.log.Info("catalog sync triggered", zap.String("adapter", adapter.Name), zap.String("id", adapter.ID.String()))
	return &v1alpha1.SyncAccepted{AdapterId: adapter.ID, Message: "catalog sync started"}, nil
}

func (s *AdapterService) getAdapterModel(ctx context.Context, adapterID string) (*model.Adapter, error) {
	id, err := uuid.Parse(adapterID)
	if err != nil {
		return nil, NewValidationError("invalid adapter ID format")
	}

	adapter, err := s.store.Adapter().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrAdapterNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("adapter %s not found", adapterID))
		}
		return nil, err
	}
	return adapter, nil
}
