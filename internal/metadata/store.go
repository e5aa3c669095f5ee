// Package metadata persists the per-VM record to vm-info.json inside
// the VM directory.
//
// The record is advisory, not authoritative: the directory's existence
// and the running process are what matter. Write failures degrade the
// post-boot summary but never abort a launch, and reads tolerate
// missing or unknown fields.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// CreatedFormat is the timestamp layout of the created field.
const CreatedFormat = "2006-01-02T15:04:05Z"

// Record is the persisted metadata for one VM. The password is stored
// in clear text so the summary can display login credentials; this is
// a documented weakness of the tool, not an accident.
type Record struct {
	Name     string `json:"name"`
	Distro   string `json:"distro"`
	Username string `json:"username"`
	Password string `json:"password"`
	MAC      string `json:"mac"`
	Memory   int    `json:"memory"`
	CPUs     int    `json:"cpus"`
	DiskSize string `json:"disk_size"`
	Created  string `json:"created"`
}

// Stamp sets the created field to now in UTC.
func (r *Record) Stamp(now time.Time) {
	r.Created = now.UTC().Format(CreatedFormat)
}

// Save writes the record to path as indented JSON.
func Save(path string, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal VM record: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write VM record %s: %w", path, err)
	}
	return nil
}

// Load reads a record back. Unknown fields are ignored and missing
// fields stay zero; only an unreadable or unparsable file errors.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read VM record %s: %w", path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to parse VM record %s: %w", path, err)
	}
	return rec, nil
}
