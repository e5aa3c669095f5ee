// Package disk prepares a VM's private directory and writable disk
// from a cached distro image.
package disk

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jbweber/v4m/internal/config"
)

var (
	// ErrNameCollision is returned when the VM directory already
	// exists. The existing directory is left untouched.
	ErrNameCollision = errors.New("VM already exists")

	// ErrDiskCopyFailed is returned when the cached image cannot be
	// copied into the VM directory.
	ErrDiskCopyFailed = errors.New("disk copy failed")

	// ErrResizeFailed is returned when the disk cannot be grown to the
	// target size, including requests to shrink below the image size.
	ErrResizeFailed = errors.New("disk resize failed")
)

// ImageSource resolves a distro identifier to a local readable image.
// Satisfied by *distro.Cache.
type ImageSource interface {
	Ensure(id string) (string, error)
}

// Provisioner creates per-VM storage: the directory, the writable
// copy-on-provision disk, and the firmware variable store.
type Provisioner struct {
	cfg     config.Config
	images  ImageSource
	resizer Resizer
}

// NewProvisioner wires a provisioner with its collaborators.
func NewProvisioner(cfg config.Config, images ImageSource, resizer Resizer) *Provisioner {
	return &Provisioner{cfg: cfg, images: images, resizer: resizer}
}

// Provision runs the disk gates in order: directory absence, image
// resolution, copy, grow-only resize, firmware variable allocation.
//
// The cached image is copied, not cloned or backed: the cache file must
// stay pristine for reuse by other VMs of the same distro.
//
// If any gate after directory creation fails, the directory this call
// created is removed; stages past provisioning never roll back.
func (p *Provisioner) Provision(name, distroID string) error {
	vmDir := p.cfg.VMDir(name)

	if info, err := os.Stat(vmDir); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNameCollision, vmDir)
	}

	if err := os.MkdirAll(vmDir, 0o755); err != nil {
		return fmt.Errorf("failed to create VM directory %s: %w", vmDir, err)
	}

	var provErr error
	defer func() {
		if provErr != nil {
			_ = os.RemoveAll(vmDir)
		}
	}()

	imagePath, provErr := p.images.Ensure(distroID)
	if provErr != nil {
		return provErr
	}

	diskPath := p.cfg.DiskPath(name)
	if provErr = copyFile(imagePath, diskPath); provErr != nil {
		provErr = fmt.Errorf("%w: %v", ErrDiskCopyFailed, provErr)
		return provErr
	}

	if provErr = p.grow(diskPath); provErr != nil {
		return provErr
	}

	if provErr = allocateEFIVars(p.cfg.EFIVarsPath(name)); provErr != nil {
		return provErr
	}

	return nil
}

// grow resizes the copied disk to the configured target. Shrinking
// below the image's virtual size is rejected before the resizer runs.
func (p *Provisioner) grow(diskPath string) error {
	target, err := ParseSize(p.cfg.DiskSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResizeFailed, err)
	}

	current, err := p.resizer.VirtualSize(diskPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResizeFailed, err)
	}

	if target < current {
		return fmt.Errorf("%w: target %s is below image size %d bytes (grow-only)",
			ErrResizeFailed, p.cfg.DiskSize, current)
	}
	if target == current {
		return nil
	}

	if err := p.resizer.Resize(diskPath, p.cfg.DiskSize); err != nil {
		return fmt.Errorf("%w: %v", ErrResizeFailed, err)
	}
	return nil
}

// allocateEFIVars creates the zero-filled UEFI NVRAM backing file.
func allocateEFIVars(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create EFI var store %s: %w", path, err)
	}
	defer f.Close()

	if err := f.Truncate(config.EFIVarsSize); err != nil {
		return fmt.Errorf("failed to allocate EFI var store %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", dest, err)
	}
	return nil
}
