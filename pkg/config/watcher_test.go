package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcher_ReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locations.yaml")
	if err := os.WriteFile(path, []byte(validLocations), 0o644); err != nil {
		t.Fatalf("failed to write locations file: %v", err)
	}

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	reloaded := make(chan *LocationsFile, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(lf *LocationsFile) error {
			reloaded <- lf
			return nil
		})
	}()

	// Give the watcher time to install before mutating the file.
	time.Sleep(100 * time.Millisecond)

	updated := strings.Replace(validLocations, "\ndatacenters:", `  - locationType: billing
    uri: https://billing.example.com
    environment: production

datacenters:`, 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to update locations file: %v", err)
	}

	select {
	case lf := <-reloaded:
		if len(lf.Locations) != 4 {
			t.Errorf("reloaded table has %d locations, want 4", len(lf.Locations))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher shutdown")
	}
}

// A table that fails validation keeps the previous table: the callback
// must not fire.
func TestWatcher_KeepsPreviousTableOnBrokenWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locations.yaml")
	if err := os.WriteFile(path, []byte(validLocations), 0o644); err != nil {
		t.Fatalf("failed to write locations file: %v", err)
	}

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	reloaded := make(chan *LocationsFile, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Watch(ctx, func(lf *LocationsFile) error {
			reloaded <- lf
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)

	broken := "locations:\n  - uri: https://no-type.example.com\n"
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatalf("failed to update locations file: %v", err)
	}

	select {
	case lf := <-reloaded:
		t.Fatalf("reload callback fired for invalid table: %+v", lf)
	case <-time.After(500 * time.Millisecond):
		// No reload: previous table kept.
	}
}

func TestNewWatcher_EmptyPath(t *testing.T) {
	if _, err := NewWatcher("", 0, nil); err == nil {
		t.Fatal("NewWatcher(\"\") = nil error, want error")
	}
}
