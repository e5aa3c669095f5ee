// Package qemu assembles the hypervisor invocation and supervises the
// launched process: detached start, pid capture, and boot readiness.
package qemu

import "fmt"

// Phase is the launch lifecycle state. Stop/destroy transitions are
// out of scope for this tool.
type Phase string

const (
	PhaseProvisioned  Phase = "Provisioned"
	PhaseLaunching    Phase = "Launching"
	PhaseRunning      Phase = "Running"
	PhaseLaunchFailed Phase = "LaunchFailed"
)

var transitions = map[Phase][]Phase{
	PhaseProvisioned: {PhaseLaunching},
	PhaseLaunching:   {PhaseRunning, PhaseLaunchFailed},
}

// Transition validates and returns the next phase.
func Transition(from, to Phase) (Phase, error) {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return to, nil
		}
	}
	return from, fmt.Errorf("cannot transition from %s to %s", from, to)
}
