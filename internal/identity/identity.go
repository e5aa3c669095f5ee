// Package identity generates VM names, passwords, and MAC addresses
// when the user does not supply them.
//
// Generation is random with no fleet-wide uniqueness guarantee; the
// generate-check-retry helpers only consult a best-effort registry of
// existing VMs, and concurrent invocations can still collide. The
// final authority is the VM directory existence check at provisioning
// time.
package identity

import (
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	mathrand "math/rand/v2"
	"time"
)

// maxAttempts bounds the generate-check-retry loops.
const maxAttempts = 10

// ErrExhaustedAttempts is returned when no unused name or MAC could be
// generated within the attempt budget.
var ErrExhaustedAttempts = errors.New("exhausted attempts to generate a unique identity")

var (
	adjectives = []string{
		"fast", "quick", "smart", "bright", "cool",
		"swift", "agile", "sharp", "clever", "rapid",
	}
	nouns = []string{
		"vm", "box", "node", "server", "instance",
		"machine", "host", "system", "unit", "engine",
	}
)

const passwordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// passwordLength is fixed at 12 alphanumeric characters.
const passwordLength = 12

// Registry reports which names and MAC addresses are already in use by
// existing VMs.
type Registry interface {
	NameExists(name string) (bool, error)
	MACExists(mac string) (bool, error)
}

// GenerateName produces a random adjective-noun-number name such as
// "swift-node-42". No uniqueness check is performed here.
func GenerateName() string {
	adj := adjectives[mathrand.IntN(len(adjectives))]
	noun := nouns[mathrand.IntN(len(nouns))]
	return fmt.Sprintf("%s-%s-%d", adj, noun, mathrand.IntN(100))
}

// GeneratePassword produces a 12-character alphanumeric password from
// the secure random source. If that source is unavailable it falls back
// to a wall-clock-seeded pseudo-random generator; the returned flag is
// false in that case and callers must surface the lower assurance.
func GeneratePassword() (password string, secure bool) {
	buf := make([]byte, passwordLength)
	if _, err := cryptorand.Read(buf); err != nil {
		seed := uint64(time.Now().UnixNano())
		rng := mathrand.New(mathrand.NewPCG(seed, seed))
		out := make([]byte, passwordLength)
		for i := range out {
			out[i] = passwordChars[rng.IntN(len(passwordChars))]
		}
		return string(out), false
	}

	out := make([]byte, passwordLength)
	for i, b := range buf {
		out[i] = passwordChars[int(b)%len(passwordChars)]
	}
	return string(out), true
}

// GenerateMAC produces a locally-administered address with the QEMU
// 52:54:00 prefix and three random octets.
func GenerateMAC() (string, error) {
	buf := make([]byte, 3)
	if _, err := cryptorand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random octets: %w", err)
	}
	return fmt.Sprintf("52:54:00:%02x:%02x:%02x", buf[0], buf[1], buf[2]), nil
}

// UniqueName generates names until one is not present in the registry,
// up to the attempt budget.
func UniqueName(reg Registry) (string, error) {
	for range maxAttempts {
		name := GenerateName()
		exists, err := reg.NameExists(name)
		if err != nil {
			return "", fmt.Errorf("failed to check name %q: %w", name, err)
		}
		if !exists {
			return name, nil
		}
	}
	return "", fmt.Errorf("no unused name after %d tries: %w", maxAttempts, ErrExhaustedAttempts)
}

// UniqueMAC generates MAC addresses until one is not present in the
// registry, up to the attempt budget.
func UniqueMAC(reg Registry) (string, error) {
	for range maxAttempts {
		mac, err := GenerateMAC()
		if err != nil {
			return "", err
		}
		exists, err := reg.MACExists(mac)
		if err != nil {
			return "", fmt.Errorf("failed to check MAC %q: %w", mac, err)
		}
		if !exists {
			return mac, nil
		}
	}
	return "", fmt.Errorf("no unused MAC after %d tries: %w", maxAttempts, ErrExhaustedAttempts)
}
