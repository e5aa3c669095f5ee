package cloudinit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kdomanski/iso9660"
)

// ErrPackagingFailed is returned when the configuration volume cannot
// be built.
var ErrPackagingFailed = errors.New("cloud-init packaging failed")

// volumeLabel is required by the NoCloud datasource to recognize the
// configuration volume.
const volumeLabel = "cidata"

// Packager builds a mountable ISO volume from a directory of
// cloud-init documents. It is a narrow collaborator so the builder can
// be tested with a failing implementation.
type Packager interface {
	Package(srcDir, isoPath string) error
}

// ISO9660Packager builds the volume in-process.
type ISO9660Packager struct{}

// Package writes every regular file in srcDir into the root of a new
// ISO image at isoPath, labeled for NoCloud.
func (ISO9660Packager) Package(srcDir, isoPath string) error {
	writer, err := iso9660.NewWriter()
	if err != nil {
		return fmt.Errorf("failed to create ISO writer: %w", err)
	}
	defer func() {
		_ = writer.Cleanup()
	}()

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", srcDir, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		f, err := os.Open(filepath.Join(srcDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", entry.Name(), err)
		}

		addErr := writer.AddFile(f, entry.Name())
		f.Close()
		if addErr != nil {
			return fmt.Errorf("failed to add %s: %w", entry.Name(), addErr)
		}
	}

	out, err := os.Create(isoPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", isoPath, err)
	}

	if err := writer.WriteTo(out, volumeLabel); err != nil {
		out.Close()
		return fmt.Errorf("failed to write ISO image: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", isoPath, err)
	}
	return nil
}
