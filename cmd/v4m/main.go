package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jbweber/v4m/internal/config"
	"github.com/jbweber/v4m/internal/console"
	"github.com/jbweber/v4m/internal/distro"
	"github.com/jbweber/v4m/internal/qemu"
	"github.com/jbweber/v4m/internal/vm"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	flagName   string
	flagDistro string
	flagUser   string
	flagPass   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		console.Errorf("%v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "v4m",
	Short: "v4m - create and launch a local VM from a cloud image",
	Long: fmt.Sprintf(`v4m provisions a single local virtual machine from a cloud-image
template and launches it bridged onto the host network.

Available distros: %s

Examples:
  sudo v4m                                    # Create VM with all defaults
  sudo v4m --name myvm --user john            # Create VM 'myvm' with user 'john'
  sudo v4m --distro ubuntu22 --pass secret123 # Create Ubuntu VM with custom password`,
		strings.Join(distro.IDs(), ", ")),
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	Args:    cobra.NoArgs,
	// Failures surface as one classified message from main.
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagName, "name", "", "VM name (default: random)")
	rootCmd.Flags().StringVar(&flagDistro, "distro", "debian12", "Distribution")
	rootCmd.Flags().StringVar(&flagUser, "user", "user01", "Username")
	rootCmd.Flags().StringVar(&flagPass, "pass", "", "Password (default: auto-generated)")
}

func run(ctx context.Context) error {
	// Pre-flight: both checks abort before any filesystem mutation.
	if os.Geteuid() != 0 {
		console.Infof("Please run with sudo")
		return fmt.Errorf("this tool requires sudo privileges for bridged networking")
	}
	if _, err := exec.LookPath(qemu.Binary); err != nil {
		console.Infof("Install QEMU, e.g.: brew install qemu")
		return fmt.Errorf("QEMU not found: %s is not on PATH", qemu.Binary)
	}

	cfg, err := config.Default()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.InitDirs(); err != nil {
		return err
	}

	machine := &vm.Machine{
		Name:      flagName,
		Distro:    flagDistro,
		Username:  flagUser,
		Password:  flagPass,
		MemoryMiB: cfg.MemoryMiB,
		CPUs:      cfg.CPUs,
		DiskSize:  cfg.DiskSize,
	}
	if err := vm.CompleteIdentity(cfg, machine); err != nil {
		return err
	}

	return vm.Create(ctx, cfg, machine)
}
