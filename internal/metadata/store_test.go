package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vm-info.json")

	rec := Record{
		Name:     "demo1",
		Distro:   "debian12",
		Username: "alice",
		Password: "secret123",
		MAC:      "52:54:00:ab:cd:ef",
		Memory:   4096,
		CPUs:     4,
		DiskSize: "20G",
	}
	rec.Stamp(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	if err := Save(path, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != rec {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, rec)
	}
	if got.Created != "2025-06-01T12:00:00Z" {
		t.Errorf("created = %q, want RFC3339 UTC", got.Created)
	}
}

func TestLoadTolerant(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, rec Record)
	}{
		{
			name:    "unknown fields ignored",
			content: `{"name": "demo1", "flavor": "spicy", "nested": {"x": 1}}`,
			check: func(t *testing.T, rec Record) {
				if rec.Name != "demo1" {
					t.Errorf("name = %q, want demo1", rec.Name)
				}
			},
		},
		{
			name:    "missing fields stay blank",
			content: `{"name": "demo1"}`,
			check: func(t *testing.T, rec Record) {
				if rec.Username != "" || rec.MAC != "" || rec.Memory != 0 {
					t.Errorf("missing fields not zero: %+v", rec)
				}
			},
		},
		{
			name:    "empty object",
			content: `{}`,
			check: func(t *testing.T, rec Record) {
				if rec != (Record{}) {
					t.Errorf("want zero record, got %+v", rec)
				}
			},
		},
		{
			name:    "invalid JSON",
			content: `{"name": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vm-info.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			rec, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, rec)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "vm-info.json")); err == nil {
		t.Error("expected error for missing record")
	}
}
