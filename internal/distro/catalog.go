// Package distro maps distribution identifiers to cloud-image download
// URLs and maintains the local image cache.
package distro

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownDistro is returned for identifiers outside the catalog.
// The catalog is closed: an unknown identifier is an error, never a
// default.
var ErrUnknownDistro = errors.New("unknown distro")

var catalog = map[string]string{
	"debian12": "https://cloud.debian.org/images/cloud/bookworm/latest/debian-12-generic-arm64.qcow2",
	"ubuntu22": "https://cloud-images.ubuntu.com/releases/22.04/release/ubuntu-22.04-server-cloudimg-arm64.img",
	"ubuntu24": "https://cloud-images.ubuntu.com/releases/24.04/release/ubuntu-24.04-server-cloudimg-arm64.img",
}

// URL returns the cloud-image download URL for a distro identifier.
func URL(id string) (string, error) {
	url, ok := catalog[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDistro, id)
	}
	return url, nil
}

// IDs returns the supported distro identifiers in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
