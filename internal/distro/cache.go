package distro

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// ErrDownloadFailed is returned when the image transfer fails. Any
// partial file is removed before returning.
var ErrDownloadFailed = errors.New("distro download failed")

// Cache is a memoizing image cache keyed by filesystem presence: a
// cached file is identified by (distro, basename of the catalog URL)
// and is never re-checked for integrity or staleness. Images are
// versioned by URL path upstream, not mutated in place.
type Cache struct {
	dir     string
	fetcher Fetcher
}

// NewCache creates a cache rooted at dir (the distros directory) using
// the given fetcher for misses.
func NewCache(dir string, fetcher Fetcher) *Cache {
	return &Cache{dir: dir, fetcher: fetcher}
}

// Ensure returns the path to a local readable image for the distro,
// downloading it on a cache miss. Unknown identifiers fail with
// ErrUnknownDistro before any filesystem write.
func (c *Cache) Ensure(id string) (string, error) {
	url, err := URL(id)
	if err != nil {
		return "", err
	}

	filename := path.Base(url)
	imagePath := filepath.Join(c.dir, id, filename)

	if info, err := os.Stat(imagePath); err == nil && info.Mode().IsRegular() {
		return imagePath, nil
	}

	if err := os.MkdirAll(filepath.Dir(imagePath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create distro directory: %w", err)
	}

	if err := c.fetcher.Fetch(url, imagePath); err != nil {
		// A partial download must not satisfy the next presence check.
		_ = os.Remove(imagePath)
		return "", fmt.Errorf("%w: %s: %v", ErrDownloadFailed, id, err)
	}

	return imagePath, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}
