// Package cache provides SQLite-backed caching for compiler probe results
// and the parsed-file index. The cache lives in .cppmuck/cache.db; losing
// it costs one compiler probe per driver, nothing more.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache manages the .cppmuck/cache.db SQLite database.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the cache database in the given .cppmuck
// directory and initializes the schema if the database is new.
func Open(configDir string) (*Cache, error) {
	dbPath := filepath.Join(configDir, "cache.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	// WAL mode keeps concurrent gen/list invocations from blocking.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	cache := &Cache{db: db, dbPath: dbPath}

	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return cache, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Clear removes all cached data.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM probe; DELETE FROM file_index;")
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// GetProbe returns the cached probe arguments for a compiler driver, if
// present and still valid. An entry recorded against a different driver
// binary mtime reads as a miss, so upgrading the compiler re-probes. Any
// read or decode failure also reads as a miss.
func (c *Cache) GetProbe(driver string) ([]string, bool) {
	mtime, ok := driverMtime(driver)
	if !ok {
		return nil, false
	}

	var encoded string
	err := c.db.QueryRow(
		"SELECT args FROM probe WHERE driver = ? AND driver_mtime = ?",
		driver, mtime).Scan(&encoded)
	if err != nil {
		return nil, false
	}

	var args []string
	if err := json.Unmarshal([]byte(encoded), &args); err != nil {
		return nil, false
	}
	return args, true
}

// SetProbe stores probe arguments for a compiler driver together with the
// driver binary's current mtime.
func (c *Cache) SetProbe(driver string, args []string) error {
	encoded, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode probe args: %w", err)
	}

	mtime, _ := driverMtime(driver)

	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO probe (driver, args, driver_mtime, probed_at) VALUES (?, ?, ?, ?)",
		driver, string(encoded), mtime, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store probe args: %w", err)
	}
	return nil
}

// driverMtime resolves a driver (bare name or path) and returns its binary's
// mtime. A driver that cannot be resolved reads as uncacheable.
func driverMtime(driver string) (int64, bool) {
	path := driver
	if !filepath.IsAbs(path) {
		resolved, err := exec.LookPath(driver)
		if err != nil {
			return 0, false
		}
		path = resolved
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.ModTime().Unix(), true
}

// SetFileParsed records that the frontend parsed a file with the given
// content hash. Satisfies extract.FileIndexer.
func (c *Cache) SetFileParsed(path, hash string) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO file_index (path, hash, parsed_at) VALUES (?, ?, ?)",
		path, hash, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("update file index: %w", err)
	}
	return nil
}

// FileHash returns the recorded content hash for a path, or "" when the
// file was never indexed.
func (c *Cache) FileHash(path string) string {
	var hash string
	if err := c.db.QueryRow("SELECT hash FROM file_index WHERE path = ?", path).Scan(&hash); err != nil {
		return ""
	}
	return hash
}

// Stats reports cache contents.
type Stats struct {
	ProbeCount     int64
	FileIndexCount int64
}

// GetStats returns statistics about the cache contents.
func (c *Cache) GetStats() (*Stats, error) {
	var stats Stats

	if err := c.db.QueryRow("SELECT COUNT(*) FROM probe").Scan(&stats.ProbeCount); err != nil {
		return nil, fmt.Errorf("count probe entries: %w", err)
	}
	if err := c.db.QueryRow("SELECT COUNT(*) FROM file_index").Scan(&stats.FileIndexCount); err != nil {
		return nil, fmt.Errorf("count file index: %w", err)
	}

	return &stats, nil
}
