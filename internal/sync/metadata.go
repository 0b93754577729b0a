package sync

import (
	"context"
	"fmt"

	"github.com/dcm-project/hosting-adapter-manager/internal/providerapi"
	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
)

// reconcileMetadata merges fetched provider metadata into the adapter record,
// then upserts the provider's credential field definitions.
//
// The identity guard comes first: the merge proceeds only when the adapter's
// api binding is unset or matches the metadata id. A mismatch returns
// applied=false with no mutation, because an adapter already bound to one
// provider must not be overwritten with another provider's data.
func (s *Syncer) reconcileMetadata(ctx context.Context, adapter *model.Adapter, meta *providerapi.Metadata, summary *Summary) (applied bool, err error) {
	if adapter.API != "" && adapter.API != meta.ID {
		return false, nil
	}

	if meta.ID == "" {
		return false, fmt.Errorf("provider metadata missing required field: id")
	}
	if meta.Name == "" {
		return false, fmt.Errorf("provider metadata missing required field: name")
	}

	updated := *adapter
	updated.API = meta.ID
	updated.Name = meta.Name
	updated.ServerNickName = meta.ServerNickName
	updated.DefaultRegion = meta.DefaultRegion
	updated.DefaultSize = meta.DefaultSize
	updated.CanReboot = meta.CanReboot
	updated.CanRename = meta.CanRename
	updated.InternalIface = meta.InternalIface
	updated.ExternalIface = meta.ExternalIface
	updated.SSHUser = meta.SSHUser
	updated.SSHAuthMethod = meta.SSHAuthMethod
	updated.SSHKeyMethod = meta.SSHKeyMethod
	updated.BootstrapScript = meta.BootstrapScript
	updated.Instructions = meta.Instructions

	persisted, err := s.store.Adapter().UpdateMetadata(ctx, updated)
	if err != nil {
		return false, fmt.Errorf("update adapter metadata: %w", err)
	}
	*adapter = *persisted

	for _, entry := range meta.CredentialFields {
		field := model.CredentialField{
			AdapterID: adapter.ID,
			Key:       entry.Key,
			Label:     entry.Label,
		}
		if err := s.store.CredentialField().Upsert(ctx, field); err != nil {
			return true, fmt.Errorf("upsert credential field %q: %w", entry.Key, err)
		}
		summary.CredentialFields++
	}

	return true, nil
}
