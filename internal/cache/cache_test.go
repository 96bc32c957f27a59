package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// fakeDriver creates a file standing in for a compiler binary; the probe
// cache stats it for the mtime guard.
func fakeDriver(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "g++")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbeRoundTrip(t *testing.T) {
	c := openTestCache(t)
	driver := fakeDriver(t)

	if _, ok := c.GetProbe(driver); ok {
		t.Fatal("empty cache should miss")
	}

	args := []string{"--target=x86_64-linux-gnu", "-isystem", "/usr/include"}
	if err := c.SetProbe(driver, args); err != nil {
		t.Fatalf("SetProbe failed: %v", err)
	}

	got, ok := c.GetProbe(driver)
	if !ok {
		t.Fatal("GetProbe missed after SetProbe")
	}
	if len(got) != len(args) {
		t.Fatalf("GetProbe = %v, want %v", got, args)
	}
	for i := range args {
		if got[i] != args[i] {
			t.Errorf("args[%d] = %q, want %q", i, got[i], args[i])
		}
	}
}

func TestSetProbeReplaces(t *testing.T) {
	c := openTestCache(t)
	driver := fakeDriver(t)

	if err := c.SetProbe(driver, []string{"--target=old"}); err != nil {
		t.Fatal(err)
	}
	if err := c.SetProbe(driver, []string{"--target=new"}); err != nil {
		t.Fatal(err)
	}

	got, ok := c.GetProbe(driver)
	if !ok || len(got) != 1 || got[0] != "--target=new" {
		t.Errorf("GetProbe = %v, want the replaced value", got)
	}
}

func TestProbeInvalidatedByDriverChange(t *testing.T) {
	c := openTestCache(t)
	driver := fakeDriver(t)

	if err := c.SetProbe(driver, []string{"--target=t"}); err != nil {
		t.Fatal(err)
	}

	// A compiler upgrade changes the binary's mtime; the entry must miss.
	newTime := time.Now().Add(2 * time.Hour)
	if err := os.Chtimes(driver, newTime, newTime); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.GetProbe(driver); ok {
		t.Error("probe entry should be invalidated when the driver binary changes")
	}
}

func TestProbeUnresolvableDriverMisses(t *testing.T) {
	c := openTestCache(t)
	if _, ok := c.GetProbe("/no/such/compiler"); ok {
		t.Error("unresolvable driver must read as a miss")
	}
}

func TestFileIndex(t *testing.T) {
	c := openTestCache(t)

	if hash := c.FileHash("/p/a.hpp"); hash != "" {
		t.Errorf("FileHash on empty index = %q, want empty", hash)
	}

	if err := c.SetFileParsed("/p/a.hpp", "abc123"); err != nil {
		t.Fatalf("SetFileParsed failed: %v", err)
	}
	if hash := c.FileHash("/p/a.hpp"); hash != "abc123" {
		t.Errorf("FileHash = %q, want abc123", hash)
	}
}

func TestClearAndStats(t *testing.T) {
	c := openTestCache(t)

	if err := c.SetProbe("g++", []string{"--target=t"}); err != nil {
		t.Fatal(err)
	}
	if err := c.SetFileParsed("/p/a.hpp", "h1"); err != nil {
		t.Fatal(err)
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.ProbeCount != 1 || stats.FileIndexCount != 1 {
		t.Errorf("Stats = %+v, want 1 probe and 1 file", stats)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	stats, err = c.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.ProbeCount != 0 || stats.FileIndexCount != 0 {
		t.Errorf("Stats after Clear = %+v, want empty", stats)
	}
}
