// Package snapshot stores serialized state in named string slots inside a
// local SQLite database.
package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	dataDir = ".tick"
	dbFile  = "tick.db"
)

// Driver names accepted by Open.
const (
	DriverModernc = "sqlite"  // pure Go, default
	DriverCgo     = "sqlite3" // mattn/go-sqlite3, needs cgo
)

// ErrNotInitialized is returned by Open when no database exists yet.
var ErrNotInitialized = errors.New("database not found: run 'tick init' first")

// DB wraps the database connection
type DB struct {
	conn    *sql.DB
	baseDir string
	driver  string
}

// Path returns the database path for a project directory.
func Path(baseDir string) string {
	return filepath.Join(baseDir, dataDir, dbFile)
}

// Exists reports whether a database has been initialized under baseDir.
func Exists(baseDir string) bool {
	_, err := os.Stat(Path(baseDir))
	return err == nil
}

// Open opens an existing database and applies pending migrations.
func Open(baseDir, driver string) (*DB, error) {
	if !Exists(baseDir) {
		return nil, ErrNotInitialized
	}
	return open(baseDir, driver)
}

// Initialize creates the data directory and database if needed.
func Initialize(baseDir, driver string) (*DB, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, dataDir), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return open(baseDir, driver)
}

func open(baseDir, driver string) (*DB, error) {
	if driver == "" {
		driver = DriverModernc
	}
	if driver != DriverModernc && driver != DriverCgo {
		return nil, fmt.Errorf("unknown sqlite driver %q (use %s or %s)", driver, DriverModernc, DriverCgo)
	}

	conn, err := sql.Open(driver, Path(baseDir))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL lets readers proceed while a snapshot write is in flight
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	conn.Exec("PRAGMA synchronous=NORMAL")

	db := &DB{conn: conn, baseDir: baseDir, driver: driver}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// BaseDir returns the project directory the database belongs to
func (db *DB) BaseDir() string {
	return db.baseDir
}

// Driver returns the sqlite driver in use
func (db *DB) Driver() string {
	return db.driver
}

// Get returns the value stored under key.
func (db *DB) Get(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return value, true, nil
}

// Put replaces the value stored under key.
func (db *DB) Put(key, value string) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`
			INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("write slot %s: %w", key, err)
		}
		return nil
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (db *DB) Delete(key string) error {
	return db.withWriteLock(func() error {
		if _, err := db.conn.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
			return fmt.Errorf("delete slot %s: %w", key, err)
		}
		return nil
	})
}

// Keys lists every stored key in sorted order.
func (db *DB) Keys() ([]string, error) {
	rows, err := db.conn.Query(`SELECT key FROM slots`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// SchemaVersion returns the schema version recorded in the database
func (db *DB) SchemaVersion() (int, error) {
	var raw string
	err := db.conn.QueryRow(`SELECT value FROM schema_info WHERE key = 'version'`).Scan(&raw)
	if err != nil {
		// Missing table or row means a fresh database
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// withWriteLock executes fn while holding the cross-process write lock.
func (db *DB) withWriteLock(fn func() error) error {
	locker := newWriteLocker(filepath.Join(db.baseDir, dataDir))
	if err := locker.acquire(defaultTimeout); err != nil {
		return err
	}
	defer locker.release()
	return fn()
}

func (db *DB) migrate() error {
	current, _ := db.SchemaVersion()
	if current >= SchemaVersion {
		return nil
	}
	return db.withWriteLock(func() error {
		if _, err := db.conn.Exec(schema); err != nil {
			return err
		}
		_, err := db.conn.Exec(`INSERT OR REPLACE INTO schema_info (key, value) VALUES ('version', ?)`,
			strconv.Itoa(SchemaVersion))
		return err
	})
}
