// Package config holds the explicit configuration value object threaded
// through the provisioning pipeline, plus the filesystem layout helpers
// for the state root.
//
// Defaults are applied once at the entry point; no component reads
// ambient constants.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

const (
	// DefaultMemoryMiB is the VM memory allocation in MiB.
	DefaultMemoryMiB = 4096

	// DefaultCPUs is the VM vCPU count.
	DefaultCPUs = 4

	// DefaultDiskSize is the provisioned disk target size.
	DefaultDiskSize = "20G"

	// DefaultBootGrace is the fixed wait after launch before the guest
	// is assumed booted.
	DefaultBootGrace = 60 * time.Second

	// DefaultFirmwareCode is the read-only UEFI firmware image.
	DefaultFirmwareCode = "/opt/homebrew/share/qemu/edk2-aarch64-code.fd"

	// DefaultFallbackBridge is used when host interface discovery fails.
	DefaultFallbackBridge = "en0"

	// EFIVarsSize is the size of the zero-filled NVRAM store.
	EFIVarsSize = 64 * 1024 * 1024
)

var diskSizePattern = regexp.MustCompile(`^[0-9]+[KMGT]?$`)

// Config carries all tunables and the state root for one pipeline run.
type Config struct {
	StateRoot      string
	MemoryMiB      int
	CPUs           int
	DiskSize       string
	BootGrace      time.Duration
	FirmwareCode   string
	FallbackBridge string
}

// Default returns a Config rooted at $HOME/.v4m with the fixed resource
// defaults applied.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return Config{
		StateRoot:      filepath.Join(home, ".v4m"),
		MemoryMiB:      DefaultMemoryMiB,
		CPUs:           DefaultCPUs,
		DiskSize:       DefaultDiskSize,
		BootGrace:      DefaultBootGrace,
		FirmwareCode:   DefaultFirmwareCode,
		FallbackBridge: DefaultFallbackBridge,
	}, nil
}

// Validate checks the configuration for structural errors.
func (c Config) Validate() error {
	if c.StateRoot == "" {
		return fmt.Errorf("state root is required")
	}
	if c.MemoryMiB <= 0 {
		return fmt.Errorf("memory must be > 0, got %d", c.MemoryMiB)
	}
	if c.CPUs <= 0 {
		return fmt.Errorf("cpus must be > 0, got %d", c.CPUs)
	}
	if !diskSizePattern.MatchString(c.DiskSize) {
		return fmt.Errorf("disk size must look like 20G, got %q", c.DiskSize)
	}
	return nil
}

// InitDirs creates the state root and its distros/vms subdirectories.
func (c Config) InitDirs() error {
	for _, dir := range []string{c.StateRoot, c.DistrosDir(), c.VMsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// DistrosDir returns the cached-image root: <root>/distros.
func (c Config) DistrosDir() string {
	return filepath.Join(c.StateRoot, "distros")
}

// VMsDir returns the per-VM root: <root>/vms.
func (c Config) VMsDir() string {
	return filepath.Join(c.StateRoot, "vms")
}

// VMDir returns the directory owning all of one VM's artifacts.
func (c Config) VMDir(name string) string {
	return filepath.Join(c.VMsDir(), name)
}

// These helpers encapsulate the per-VM artifact naming in one place so
// provisioning, launch, and the state store stay consistent.

// DiskPath returns the writable disk: <vmDir>/disk.qcow2.
func (c Config) DiskPath(name string) string {
	return filepath.Join(c.VMDir(name), "disk.qcow2")
}

// EFIVarsPath returns the NVRAM store: <vmDir>/efi-vars.fd.
func (c Config) EFIVarsPath(name string) string {
	return filepath.Join(c.VMDir(name), "efi-vars.fd")
}

// UserDataPath returns the cloud-init user-data document path.
func (c Config) UserDataPath(name string) string {
	return filepath.Join(c.VMDir(name), "user-data")
}

// MetaDataPath returns the cloud-init meta-data document path.
func (c Config) MetaDataPath(name string) string {
	return filepath.Join(c.VMDir(name), "meta-data")
}

// ISOPath returns the packaged configuration volume: <vmDir>/cloud-init.iso.
func (c Config) ISOPath(name string) string {
	return filepath.Join(c.VMDir(name), "cloud-init.iso")
}

// InfoPath returns the persisted metadata record: <vmDir>/vm-info.json.
func (c Config) InfoPath(name string) string {
	return filepath.Join(c.VMDir(name), "vm-info.json")
}

// ConsoleLogPath returns the hypervisor console log path.
func (c Config) ConsoleLogPath(name string) string {
	return filepath.Join(c.VMDir(name), "console.log")
}

// MonitorSocketPath returns the control-monitor unix socket path.
func (c Config) MonitorSocketPath(name string) string {
	return filepath.Join(c.VMDir(name), "monitor.sock")
}

// ConsoleSocketPath returns the serial-console unix socket path.
func (c Config) ConsoleSocketPath(name string) string {
	return filepath.Join(c.VMDir(name), "console.sock")
}

// GuestAgentSocketPath returns the guest-agent channel socket path.
func (c Config) GuestAgentSocketPath(name string) string {
	return filepath.Join(c.VMDir(name), "qga.sock")
}

// PIDFilePath returns the hypervisor pid file path.
func (c Config) PIDFilePath(name string) string {
	return filepath.Join(c.VMDir(name), "vm.pid")
}
