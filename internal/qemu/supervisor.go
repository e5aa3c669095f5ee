package qemu

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/jbweber/v4m/internal/console"
)

// ErrLaunchFailed is returned when the hypervisor process cannot be
// started. Provisioned artifacts are left in place for inspection.
var ErrLaunchFailed = errors.New("hypervisor launch failed")

// ProcessStarter starts the hypervisor detached and reports its pid.
// Narrow so the supervisor is testable without a real hypervisor.
type ProcessStarter interface {
	Start(args []string, consoleLog string) (pid int, err error)
}

// DetachedStarter launches the hypervisor in its own session so it
// outlives this process, with stdout and stderr going to the console
// log.
type DetachedStarter struct{}

// Start runs the hypervisor binary with the given arguments.
func (DetachedStarter) Start(args []string, consoleLog string) (int, error) {
	logFile, err := os.OpenFile(consoleLog, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open console log %s: %w", consoleLog, err)
	}
	defer logFile.Close()

	cmd := exec.Command(Binary, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", Binary, err)
	}

	pid := cmd.Process.Pid

	// The process must not become a child we are expected to reap.
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("failed to release hypervisor process: %w", err)
	}
	return pid, nil
}

// Supervisor drives the launch state machine:
// Provisioned -> Launching -> Running | LaunchFailed.
type Supervisor struct {
	starter ProcessStarter
	probe   ReadinessProbe
	phase   Phase
}

// NewSupervisor wires a supervisor in the Provisioned phase.
func NewSupervisor(starter ProcessStarter, probe ReadinessProbe) *Supervisor {
	return &Supervisor{starter: starter, probe: probe, phase: PhaseProvisioned}
}

// Phase reports the current lifecycle phase.
func (s *Supervisor) Phase() Phase {
	return s.phase
}

// Launch resets the runtime artifacts, starts the hypervisor detached,
// records its pid, and blocks on the readiness probe.
func (s *Supervisor) Launch(ctx context.Context, spec LaunchSpec) error {
	phase, err := Transition(s.phase, PhaseLaunching)
	if err != nil {
		return err
	}
	s.phase = phase

	// A previous run may have left a console log and monitor socket.
	if err := os.WriteFile(spec.ConsoleLog, nil, 0o644); err != nil {
		return s.fail(fmt.Errorf("failed to reset console log: %w", err))
	}
	if err := os.Remove(spec.MonitorSocket); err != nil && !os.IsNotExist(err) {
		return s.fail(fmt.Errorf("failed to remove stale monitor socket: %w", err))
	}

	pid, err := s.starter.Start(BuildArgs(spec), spec.ConsoleLog)
	if err != nil {
		return s.fail(err)
	}

	if err := os.WriteFile(spec.PIDFile, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		return s.fail(fmt.Errorf("failed to write pid file: %w", err))
	}

	console.Infof("Waiting for VM to boot...")
	if err := s.probe.Wait(ctx, spec); err != nil {
		return s.fail(fmt.Errorf("readiness probe: %w", err))
	}

	phase, err = Transition(s.phase, PhaseRunning)
	if err != nil {
		return err
	}
	s.phase = phase
	return nil
}

func (s *Supervisor) fail(cause error) error {
	if phase, err := Transition(s.phase, PhaseLaunchFailed); err == nil {
		s.phase = phase
	}
	return fmt.Errorf("%w: %v", ErrLaunchFailed, cause)
}
