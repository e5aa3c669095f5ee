package qemu

import "fmt"

// Binary is the hypervisor executable; its presence on PATH is a
// pre-flight requirement checked before the pipeline runs.
const Binary = "qemu-system-aarch64"

// LaunchSpec carries everything needed to assemble one hypervisor
// invocation. All socket and file paths live under the VM directory so
// two VMs can never collide.
type LaunchSpec struct {
	Name      string
	MAC       string
	MemoryMiB int
	CPUs      int

	// Bridge is the host interface the VM's NIC is bridged onto.
	Bridge string

	FirmwareCode string
	EFIVarsPath  string
	DiskPath     string
	ISOPath      string

	ConsoleLog       string
	MonitorSocket    string
	ConsoleSocket    string
	GuestAgentSocket string
	PIDFile          string
}

// BuildArgs constructs the hypervisor argument list: hvf-accelerated
// virt machine, pflash firmware pair, virtio disk, read-only virtio
// CD-ROM for the configuration volume, bridged virtio NIC, and the
// per-VM monitor, serial, and guest-agent sockets.
func BuildArgs(spec LaunchSpec) []string {
	return []string{
		"-machine", "virt",
		"-cpu", "host",
		"-accel", "hvf",
		"-smp", fmt.Sprintf("%d", spec.CPUs),
		"-m", fmt.Sprintf("%d", spec.MemoryMiB),
		"-drive", fmt.Sprintf("if=pflash,format=raw,file=%s,readonly=on", spec.FirmwareCode),
		"-drive", fmt.Sprintf("if=pflash,format=raw,file=%s", spec.EFIVarsPath),
		"-drive", fmt.Sprintf("file=%s,format=qcow2,if=virtio", spec.DiskPath),
		"-drive", fmt.Sprintf("file=%s,media=cdrom,if=virtio,readonly=on", spec.ISOPath),
		"-netdev", fmt.Sprintf("vmnet-bridged,id=net0,ifname=%s", spec.Bridge),
		"-device", fmt.Sprintf("virtio-net,netdev=net0,mac=%s", spec.MAC),
		"-global", "PIIX4_PM.disable_s3=1",
		"-monitor", fmt.Sprintf("unix:%s,server,nowait", spec.MonitorSocket),
		"-serial", fmt.Sprintf("unix:%s,server,nowait", spec.ConsoleSocket),
		"-device", "virtio-serial",
		"-chardev", fmt.Sprintf("socket,path=%s,server=on,wait=off,id=qga0", spec.GuestAgentSocket),
		"-device", "virtserialport,chardev=qga0,name=org.qemu.guest_agent.0",
		"-nographic",
	}
}
