package cache

// initSchema creates the cache tables if they do not exist.
func (c *Cache) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS probe (
	driver       TEXT PRIMARY KEY,
	args         TEXT NOT NULL,
	driver_mtime INTEGER NOT NULL,
	probed_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS file_index (
	path      TEXT PRIMARY KEY,
	hash      TEXT NOT NULL,
	parsed_at INTEGER NOT NULL
);
`
	_, err := c.db.Exec(schema)
	return err
}
