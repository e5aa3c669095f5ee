package vm

import (
	"context"

	"github.com/jbweber/v4m/internal/qemu"
)

// provisioner prepares the VM directory, disk, and firmware store.
// In production this is *disk.Provisioner; tests inject fakes.
type provisioner interface {
	Provision(name, distroID string) error
}

// configBuilder produces the cloud-init configuration volume.
// In production this is *cloudinit.Builder.
type configBuilder interface {
	Build(name, username, password string) (isoPath string, err error)
}

// launcher starts the hypervisor and waits for boot readiness.
// In production this is *qemu.Supervisor.
type launcher interface {
	Launch(ctx context.Context, spec qemu.LaunchSpec) error
	Phase() qemu.Phase
}
