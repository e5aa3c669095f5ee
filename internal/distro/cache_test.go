package distro

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"testing"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "debian12", id: "debian12"},
		{name: "ubuntu22", id: "ubuntu22"},
		{name: "ubuntu24", id: "ubuntu24"},
		{name: "unknown id", id: "bogus", wantErr: true},
		{name: "empty id", id: "", wantErr: true},
		{name: "case sensitive", id: "Debian12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, err := URL(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDistro) {
					t.Errorf("error = %v, want ErrUnknownDistro", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("URL(%q) error = %v", tt.id, err)
			}
			if url == "" {
				t.Error("expected a URL")
			}
		})
	}
}

func TestIDs(t *testing.T) {
	ids := IDs()
	want := []string{"debian12", "ubuntu22", "ubuntu24"}
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("IDs()[%d] = %q, want %q", i, ids[i], id)
		}
	}
}

// fakeFetcher stands in for the curl collaborator.
type fakeFetcher struct {
	calls   int
	fail    bool
	partial bool
}

func (f *fakeFetcher) Fetch(url, dest string) error {
	f.calls++
	if f.fail {
		if f.partial {
			// Simulate an interrupted transfer leaving bytes behind.
			if err := os.WriteFile(dest, []byte("partial"), 0o644); err != nil {
				return err
			}
		}
		return fmt.Errorf("transfer failed")
	}
	return os.WriteFile(dest, []byte("image-bytes"), 0o644)
}

func TestCacheEnsure(t *testing.T) {
	t.Run("downloads on miss, basename matches URL", func(t *testing.T) {
		dir := t.TempDir()
		fetcher := &fakeFetcher{}
		cache := NewCache(dir, fetcher)

		for _, id := range IDs() {
			got, err := cache.Ensure(id)
			if err != nil {
				t.Fatalf("Ensure(%q) error = %v", id, err)
			}

			url, _ := URL(id)
			if filepath.Base(got) != path.Base(url) {
				t.Errorf("Ensure(%q) basename = %q, want %q", id, filepath.Base(got), path.Base(url))
			}
			if !pathWithin(got, dir) {
				t.Errorf("Ensure(%q) = %q, want under %q", id, got, dir)
			}
			if _, err := os.Stat(got); err != nil {
				t.Errorf("cached file missing: %v", err)
			}
		}
		if fetcher.calls != len(IDs()) {
			t.Errorf("fetch calls = %d, want %d", fetcher.calls, len(IDs()))
		}
	})

	t.Run("second call is a cache hit", func(t *testing.T) {
		dir := t.TempDir()
		fetcher := &fakeFetcher{}
		cache := NewCache(dir, fetcher)

		first, err := cache.Ensure("debian12")
		if err != nil {
			t.Fatalf("first Ensure error = %v", err)
		}
		second, err := cache.Ensure("debian12")
		if err != nil {
			t.Fatalf("second Ensure error = %v", err)
		}
		if first != second {
			t.Errorf("paths differ: %q vs %q", first, second)
		}
		if fetcher.calls != 1 {
			t.Errorf("fetch calls = %d, want 1", fetcher.calls)
		}
	})

	t.Run("unknown distro performs no writes", func(t *testing.T) {
		dir := t.TempDir()
		fetcher := &fakeFetcher{}
		cache := NewCache(dir, fetcher)

		_, err := cache.Ensure("bogus")
		if !errors.Is(err, ErrUnknownDistro) {
			t.Fatalf("error = %v, want ErrUnknownDistro", err)
		}
		if fetcher.calls != 0 {
			t.Errorf("fetch calls = %d, want 0", fetcher.calls)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("cache dir not empty: %v", entries)
		}
	})

	t.Run("failed download removes partial file", func(t *testing.T) {
		dir := t.TempDir()
		fetcher := &fakeFetcher{fail: true, partial: true}
		cache := NewCache(dir, fetcher)

		_, err := cache.Ensure("debian12")
		if !errors.Is(err, ErrDownloadFailed) {
			t.Fatalf("error = %v, want ErrDownloadFailed", err)
		}

		url, _ := URL("debian12")
		partial := filepath.Join(dir, "debian12", path.Base(url))
		if _, err := os.Stat(partial); !os.IsNotExist(err) {
			t.Errorf("partial file still present at %s", partial)
		}

		// The miss must stay a miss: a retry downloads again.
		fetcher.fail = false
		if _, err := cache.Ensure("debian12"); err != nil {
			t.Fatalf("retry Ensure error = %v", err)
		}
		if fetcher.calls != 2 {
			t.Errorf("fetch calls = %d, want 2", fetcher.calls)
		}
	})
}

func pathWithin(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	return err == nil && !filepath.IsAbs(rel) && rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
