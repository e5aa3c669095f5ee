package qemu

import (
	"context"
	"fmt"
	"net"
	"time"
)

// ReadinessProbe waits until the launched guest is assumed or observed
// to have booted.
type ReadinessProbe interface {
	Wait(ctx context.Context, spec LaunchSpec) error
}

// FixedDelay is the default strategy: block for the boot grace period.
// It is not a guarantee the guest is reachable, only that it had time
// to boot.
type FixedDelay struct {
	Delay time.Duration
}

// Wait sleeps for the configured delay or until the context ends.
func (f FixedDelay) Wait(ctx context.Context, _ LaunchSpec) error {
	select {
	case <-time.After(f.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GuestAgentProbe polls the guest-agent channel socket until it
// accepts a connection, with a bounded number of attempts.
type GuestAgentProbe struct {
	Interval time.Duration
	Attempts int
}

// Wait dials the guest-agent socket between sleeps until it connects
// or the attempt budget runs out.
func (g GuestAgentProbe) Wait(ctx context.Context, spec LaunchSpec) error {
	for attempt := 0; attempt < g.Attempts; attempt++ {
		select {
		case <-time.After(g.Interval):
		case <-ctx.Done():
			return ctx.Err()
		}

		conn, err := net.Dial("unix", spec.GuestAgentSocket)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("guest agent at %s not reachable after %d attempts", spec.GuestAgentSocket, g.Attempts)
}
