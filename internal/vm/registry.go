package vm

import (
	"fmt"
	"os"

	"github.com/jbweber/v4m/internal/config"
	"github.com/jbweber/v4m/internal/metadata"
)

// Registry reports identities already used by the VM fleet, backed by
// the vms directory and its metadata records.
type Registry struct {
	cfg config.Config
}

// NewRegistry creates a registry over the configured state root.
func NewRegistry(cfg config.Config) Registry {
	return Registry{cfg: cfg}
}

// NameExists reports whether a VM directory of that name exists.
func (r Registry) NameExists(name string) (bool, error) {
	info, err := os.Stat(r.cfg.VMDir(name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check VM directory: %w", err)
	}
	return info.IsDir(), nil
}

// MACExists reports whether any existing VM record claims the MAC.
// Records that cannot be read are skipped: the registry is advisory
// and an unreadable record must not block provisioning.
func (r Registry) MACExists(mac string) (bool, error) {
	entries, err := os.ReadDir(r.cfg.VMsDir())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to list VMs: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := metadata.Load(r.cfg.InfoPath(entry.Name()))
		if err != nil {
			continue
		}
		if rec.MAC == mac {
			return true, nil
		}
	}
	return false, nil
}
