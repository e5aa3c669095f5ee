package distro

import (
	"fmt"
	"os"
	"os/exec"
)

// Fetcher transfers a remote image to a local path. It is a narrow
// collaborator so the cache can be tested without network access.
type Fetcher interface {
	Fetch(url, dest string) error
}

// CurlFetcher streams the URL with curl, showing its progress bar on
// the user's terminal. No timeout is applied beyond curl's own exit;
// a hung transfer hangs the pipeline.
type CurlFetcher struct{}

// Fetch downloads url to dest, following redirects.
func (CurlFetcher) Fetch(url, dest string) error {
	cmd := exec.Command("curl", "-fL", "-o", dest, url, "--progress-bar")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("curl %s: %w", url, err)
	}
	return nil
}
