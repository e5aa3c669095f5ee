package vm

import (
	"time"

	"github.com/jbweber/v4m/internal/config"
	"github.com/jbweber/v4m/internal/console"
	"github.com/jbweber/v4m/internal/identity"
)

// Machine is the central entity of one provisioning run. Name is also
// the hostname and the directory name; resources are copied from the
// configuration at the entry point.
type Machine struct {
	Name      string
	Distro    string
	Username  string
	Password  string
	MAC       string
	MemoryMiB int
	CPUs      int
	DiskSize  string
	CreatedAt time.Time
}

// CompleteIdentity fills in the name, password, and MAC when the user
// did not supply them, checking generated candidates against the
// existing VM fleet. The check is best-effort: a concurrent invocation
// can still race it, and the directory existence gate at provisioning
// time remains the authority.
func CompleteIdentity(cfg config.Config, m *Machine) error {
	reg := NewRegistry(cfg)

	if m.Name == "" {
		name, err := identity.UniqueName(reg)
		if err != nil {
			return err
		}
		m.Name = name
	}

	if m.Password == "" {
		password, secure := identity.GeneratePassword()
		if !secure {
			console.Warningf("secure random source unavailable, generated a lower-assurance password")
		}
		m.Password = password
	}

	if m.MAC == "" {
		mac, err := identity.UniqueMAC(reg)
		if err != nil {
			return err
		}
		m.MAC = mac
	}

	return nil
}
