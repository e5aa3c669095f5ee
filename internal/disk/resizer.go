package disk

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

// Resizer reports and changes a disk image's virtual size. It is a
// narrow collaborator so provisioning logic is testable without
// invoking qemu-img.
type Resizer interface {
	VirtualSize(path string) (int64, error)
	Resize(path, size string) error
}

// QemuImgResizer shells out to qemu-img, the same way disks are
// inspected and resized by hand.
type QemuImgResizer struct{}

type imageInfo struct {
	VirtualSize int64 `json:"virtual-size"`
}

// VirtualSize queries the image's virtual size in bytes.
func (QemuImgResizer) VirtualSize(path string) (int64, error) {
	out, err := exec.Command("qemu-img", "info", "--output=json", path).Output()
	if err != nil {
		return 0, fmt.Errorf("qemu-img info %s: %w", path, err)
	}

	var info imageInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return 0, fmt.Errorf("failed to parse qemu-img info for %s: %w", path, err)
	}
	return info.VirtualSize, nil
}

// Resize grows the image to the target size (e.g. "20G").
func (QemuImgResizer) Resize(path, size string) error {
	if out, err := exec.Command("qemu-img", "resize", path, size).CombinedOutput(); err != nil {
		return fmt.Errorf("qemu-img resize %s %s: %w\nOutput: %s", path, size, err, string(out))
	}
	return nil
}

var sizePattern = regexp.MustCompile(`^([0-9]+)([KMGT]?)$`)

// ParseSize converts a size string like "20G" to bytes.
func ParseSize(s string) (int64, error) {
	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}

	switch m[2] {
	case "K":
		n <<= 10
	case "M":
		n <<= 20
	case "G":
		n <<= 30
	case "T":
		n <<= 40
	}
	return n, nil
}
