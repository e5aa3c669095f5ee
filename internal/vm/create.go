package vm

import (
	"context"
	"time"

	"github.com/jbweber/v4m/internal/cloudinit"
	"github.com/jbweber/v4m/internal/config"
	"github.com/jbweber/v4m/internal/console"
	"github.com/jbweber/v4m/internal/disk"
	"github.com/jbweber/v4m/internal/distro"
	"github.com/jbweber/v4m/internal/metadata"
	"github.com/jbweber/v4m/internal/qemu"
)

// Create provisions and launches one VM with the production
// collaborators: curl for image transfer, qemu-img for disk sizing,
// openssl for password hashing, in-process ISO packaging, and a
// detached hypervisor start with the fixed boot-grace readiness wait.
func Create(ctx context.Context, cfg config.Config, m *Machine) error {
	cache := distro.NewCache(cfg.DistrosDir(), distro.CurlFetcher{})
	prov := disk.NewProvisioner(cfg, cache, disk.QemuImgResizer{})
	builder := cloudinit.NewBuilder(cfg, cloudinit.OpenSSLHasher{}, cloudinit.ISO9660Packager{})
	sup := qemu.NewSupervisor(qemu.DetachedStarter{}, qemu.FixedDelay{Delay: cfg.BootGrace})

	return createWithDeps(ctx, cfg, m, prov, builder, sup)
}

// createWithDeps runs the pipeline with injected collaborators.
//
// Every step runs synchronously to completion; there is no internal
// parallelism and no cancellation mid-pipeline. Failures abort the
// remaining steps. Metadata write failures are reported but never
// fatal: the VM can run without a readable record.
func createWithDeps(ctx context.Context, cfg config.Config, m *Machine, prov provisioner, builder configBuilder, sup launcher) error {
	// The catalog is checked before any filesystem mutation so an
	// unknown distro never leaves a VM directory behind.
	if _, err := distro.URL(m.Distro); err != nil {
		return err
	}

	console.Infof("Creating VM...")
	if err := prov.Provision(m.Name, m.Distro); err != nil {
		return err
	}

	console.Infof("Configuring cloud-init...")
	isoPath, err := builder.Build(m.Name, m.Username, m.Password)
	if err != nil {
		return err
	}

	m.CreatedAt = time.Now().UTC()
	rec := metadata.Record{
		Name:     m.Name,
		Distro:   m.Distro,
		Username: m.Username,
		Password: m.Password,
		MAC:      m.MAC,
		Memory:   m.MemoryMiB,
		CPUs:     m.CPUs,
		DiskSize: m.DiskSize,
	}
	rec.Stamp(m.CreatedAt)
	if err := metadata.Save(cfg.InfoPath(m.Name), rec); err != nil {
		console.Warningf("failed to save VM record: %v", err)
	}

	console.Successf("VM created successfully")

	bridge := qemu.ResolveBridge(cfg.FallbackBridge)
	spec := qemu.LaunchSpec{
		Name:             m.Name,
		MAC:              m.MAC,
		MemoryMiB:        m.MemoryMiB,
		CPUs:             m.CPUs,
		Bridge:           bridge,
		FirmwareCode:     cfg.FirmwareCode,
		EFIVarsPath:      cfg.EFIVarsPath(m.Name),
		DiskPath:         cfg.DiskPath(m.Name),
		ISOPath:          isoPath,
		ConsoleLog:       cfg.ConsoleLogPath(m.Name),
		MonitorSocket:    cfg.MonitorSocketPath(m.Name),
		ConsoleSocket:    cfg.ConsoleSocketPath(m.Name),
		GuestAgentSocket: cfg.GuestAgentSocketPath(m.Name),
		PIDFile:          cfg.PIDFilePath(m.Name),
	}

	console.Infof("Starting VM...")
	if err := sup.Launch(ctx, spec); err != nil {
		return err
	}
	console.Successf("VM started")

	showInfo(cfg, m.Name)
	return nil
}
