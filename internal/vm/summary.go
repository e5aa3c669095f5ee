package vm

import (
	"fmt"

	"github.com/jbweber/v4m/internal/config"
	"github.com/jbweber/v4m/internal/console"
	"github.com/jbweber/v4m/internal/metadata"
)

const bannerRule = "═══════════════════════════════════════════════════════════"

// showInfo prints the post-boot connection summary from the persisted
// record. An unreadable record only degrades this display; the VM is
// already running.
func showInfo(cfg config.Config, name string) {
	rec, err := metadata.Load(cfg.InfoPath(name))
	if err != nil {
		console.Warningf("failed to read VM record, summary unavailable: %v", err)
		return
	}

	fmt.Println()
	console.Rule(bannerRule)
	console.Rule("                        VM READY                            ")
	console.Rule(bannerRule)
	fmt.Println()

	console.Headerf("VM Information:")
	fmt.Printf("  Name: %s\n", name)
	fmt.Printf("  Memory: %dMB\n", rec.Memory)
	fmt.Printf("  CPUs: %d\n", rec.CPUs)
	fmt.Println()

	console.Headerf("Login Credentials:")
	fmt.Printf("  Username: %s\n", rec.Username)
	fmt.Printf("  Password: %s\n", rec.Password)
	fmt.Printf("  Root password: %s (same as user)\n", rec.Password)
	fmt.Printf("  SSH: ssh %s@%s.local\n", rec.Username, name)
	fmt.Println()

	console.Headerf("VM Management:")
	fmt.Printf("  Stop: kill $(cat %s)\n", cfg.PIDFilePath(name))
	fmt.Println()
}
