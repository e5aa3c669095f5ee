package cloudinit

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrHashFailed is returned when the password hashing collaborator
// fails.
var ErrHashFailed = errors.New("password hashing failed")

// PasswordHasher produces a salted crypt hash suitable for the
// cloud-config passwd field.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// OpenSSLHasher shells out to openssl for a salted SHA-512 crypt hash,
// the format every supported guest accepts in /etc/shadow.
type OpenSSLHasher struct{}

// Hash runs openssl passwd -6 and returns the trimmed hash.
func (OpenSSLHasher) Hash(password string) (string, error) {
	out, err := exec.Command("openssl", "passwd", "-6", password).Output()
	if err != nil {
		return "", fmt.Errorf("openssl passwd: %w", err)
	}

	hash := strings.TrimSpace(string(out))
	if hash == "" {
		return "", fmt.Errorf("openssl passwd produced no output")
	}
	return hash, nil
}
