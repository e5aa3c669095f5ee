package cloudinit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jbweber/v4m/internal/config"
)

// Builder renders the guest configuration documents and packages them
// into the VM's configuration volume.
type Builder struct {
	cfg      config.Config
	hasher   PasswordHasher
	packager Packager
}

// NewBuilder wires a builder with its collaborators.
func NewBuilder(cfg config.Config, hasher PasswordHasher, packager Packager) *Builder {
	return &Builder{cfg: cfg, hasher: hasher, packager: packager}
}

// Build writes user-data and meta-data into the VM directory and
// packages them into cloud-init.iso, returning the volume path.
//
// The documents pass through a scratch directory so the ISO root holds
// exactly the two files; the scratch directory is removed regardless
// of packaging outcome.
func (b *Builder) Build(name, username, password string) (string, error) {
	hash, err := b.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashFailed, err)
	}

	userData, err := GenerateUserData(name, username, hash)
	if err != nil {
		return "", err
	}

	metaData, err := GenerateMetaData(name, time.Now())
	if err != nil {
		return "", err
	}

	userDataPath := b.cfg.UserDataPath(name)
	if err := os.WriteFile(userDataPath, []byte(userData), 0o644); err != nil {
		return "", fmt.Errorf("failed to write user-data: %w", err)
	}

	metaDataPath := b.cfg.MetaDataPath(name)
	if err := os.WriteFile(metaDataPath, []byte(metaData), 0o644); err != nil {
		return "", fmt.Errorf("failed to write meta-data: %w", err)
	}

	scratch := filepath.Join(os.TempDir(), "cloud-init-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	for _, doc := range []struct{ src, name string }{
		{userDataPath, "user-data"},
		{metaDataPath, "meta-data"},
	} {
		data, err := os.ReadFile(doc.src)
		if err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", doc.name, err)
		}
		if err := os.WriteFile(filepath.Join(scratch, doc.name), data, 0o644); err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", doc.name, err)
		}
	}

	isoPath := b.cfg.ISOPath(name)
	if err := b.packager.Package(scratch, isoPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPackagingFailed, err)
	}

	return isoPath, nil
}
