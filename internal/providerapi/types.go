package providerapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Metadata is the document served at GET {endpoint}/meta.
type Metadata struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ServerNickName   string                 `json:"server_nick_name"`
	DefaultRegion    string                 `json:"default_region"`
	DefaultSize      string                 `json:"default_size"`
	CanReboot        bool                   `json:"can_reboot"`
	CanRename        bool                   `json:"can_rename"`
	InternalIface    string                 `json:"internal_iface"`
	ExternalIface    string                 `json:"external_iface"`
	SSHUser          string                 `json:"ssh_user"`
	SSHAuthMethod    string                 `json:"ssh_auth_method"`
	SSHKeyMethod     string                 `json:"ssh_key_method"`
	BootstrapScript  string                 `json:"bootstrap_script"`
	Instructions     string                 `json:"instructions"`
	CredentialFields []CredentialFieldEntry `json:"credential_fields"`
}

type CredentialFieldEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Catalog is the document served at GET {endpoint}/catalog. Providers answer
// with either a region list or an error envelope {"errors": [...]}, both with
// status 200, so decoding has to look at the shape.
type Catalog struct {
	Errors  []string
	Regions []CatalogRegion
}

func (c *Catalog) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(data, &c.Regions)
	}
	var envelope struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Errors == nil {
		return fmt.Errorf("catalog response is neither a region list nor an error envelope")
	}
	c.Errors = envelope.Errors
	return nil
}

type CatalogRegion struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Plans []CatalogPlan `json:"plans"`
}

type CatalogPlan struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Specs []CatalogSpec `json:"specs"`
}

type CatalogSpec struct {
	ID           string         `json:"id"`
	RAM          int            `json:"ram"`
	CPU          int            `json:"cpu"`
	Disk         int            `json:"disk"`
	Transfer     TransferAmount `json:"transfer"`
	DollarsPerHr float64        `json:"dollars_per_hr"`
	DollarsPerMo float64        `json:"dollars_per_mo"`
}

// TransferAmount is the transfer allowance in GB. Providers are sloppy about
// the type here: floats are truncated, integers kept, and anything else
// (string, null, bool) becomes 0. Decoding never fails.
type TransferAmount int

func (t *TransferAmount) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*t = 0
		return nil
	}
	*t = TransferAmount(int(f))
	return nil
}
