package v1alpha1

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Error is an RFC 7807 style problem document.
type Error struct {
	Type   string  `json:"type"`
	Title  string  `json:"title"`
	Detail *string `json:"detail,omitempty"`
	Status *int    `json:"status,omitempty"`
}

type Health struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

// Adapter is the API representation of a hosting-provider adapter.
type Adapter struct {
	Id              *uuid.UUID `json:"id,omitempty"`
	UserId          *uuid.UUID `json:"user_id,omitempty"`
	Name            string     `json:"name"`
	Endpoint        string     `json:"endpoint,omitempty"`
	Api             string     `json:"api,omitempty"`
	ServerNickName  string     `json:"server_nick_name,omitempty"`
	DefaultRegion   string     `json:"default_region,omitempty"`
	DefaultSize     string     `json:"default_size,omitempty"`
	CanReboot       bool       `json:"can_reboot"`
	CanRename       bool       `json:"can_rename"`
	InternalIface   string     `json:"internal_iface,omitempty"`
	ExternalIface   string     `json:"external_iface,omitempty"`
	SSHUser         string     `json:"ssh_user,omitempty"`
	SSHAuthMethod   string     `json:"ssh_auth_method,omitempty"`
	SSHKeyMethod    string     `json:"ssh_key_method,omitempty"`
	BootstrapScript string     `json:"bootstrap_script,omitempty"`
	Instructions    string     `json:"instructions,omitempty"`
	UnlinkCode      string     `json:"unlink_code,omitempty"`
	Global          bool       `json:"global"`
	SyncStatus      string     `json:"sync_status,omitempty"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	NextSyncAt      *time.Time `json:"next_sync_at,omitempty"`
	CreateTime      *time.Time `json:"create_time,omitempty"`
	UpdateTime      *time.Time `json:"update_time,omitempty"`
}

type AdapterList struct {
	Adapters      []Adapter `json:"adapters"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

type CredentialField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type CredentialFieldList struct {
	CredentialFields []CredentialField `json:"credential_fields"`
}

// Catalog is the locally persisted region/plan/spec tree for one adapter.
type Catalog struct {
	Regions []Region `json:"regions"`
}

type Region struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Plans  []Plan `json:"plans"`
}

type Plan struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Specs  []Spec `json:"specs"`
}

type Spec struct {
	Code         string  `json:"code"`
	RAM          int     `json:"ram"`
	CPU          int     `json:"cpu"`
	Disk         int     `json:"disk"`
	Transfer     int     `json:"transfer"`
	DollarsPerHr float64 `json:"dollars_per_hr"`
	DollarsPerMo float64 `json:"dollars_per_mo"`
	Active       bool    `json:"active"`
}

type SyncRun struct {
	Id         uuid.UUID       `json:"id"`
	AdapterId  uuid.UUID       `json:"adapter_id"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	Summary    json.RawMessage `json:"summary,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

type SyncRunList struct {
	SyncRuns []SyncRun `json:"sync_runs"`
}

// SyncAccepted is returned by the sync trigger; the sweep itself runs in the
// background.
type SyncAccepted struct {
	AdapterId uuid.UUID `json:"adapter_id"`
	Message   string    `json:"message"`
}
