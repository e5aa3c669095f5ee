package vm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jbweber/v4m/internal/config"
	"github.com/jbweber/v4m/internal/qemu"
)

// fakeImageSource hands out a small pre-written image file.
type fakeImageSource struct {
	path string
	err  error
}

func (f fakeImageSource) Ensure(string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

// fakeResizer reports the disk already at the target size so no resize
// subprocess is needed.
type fakeResizer struct {
	size int64
}

func (f fakeResizer) VirtualSize(string) (int64, error) { return f.size, nil }
func (fakeResizer) Resize(string, string) error         { return nil }

// fakeHasher avoids the openssl subprocess.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "$6$fake$" + password + "-hashed", nil
}

// fakeLauncher records the launch spec instead of starting QEMU.
type fakeLauncher struct {
	spec     qemu.LaunchSpec
	err      error
	launched bool
}

func (f *fakeLauncher) Launch(_ context.Context, spec qemu.LaunchSpec) error {
	f.launched = true
	f.spec = spec
	if f.err != nil {
		return f.err
	}
	return nil
}

func (f *fakeLauncher) Phase() qemu.Phase {
	if f.launched && f.err == nil {
		return qemu.PhaseRunning
	}
	return qemu.PhaseProvisioned
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Config{
		StateRoot:      t.TempDir(),
		MemoryMiB:      4096,
		CPUs:           4,
		DiskSize:       "20G",
		FirmwareCode:   "/fw/code.fd",
		FallbackBridge: "en0",
	}
	if err := cfg.InitDirs(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "base.qcow2")
	if err := os.WriteFile(path, []byte("qcow2 image bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
