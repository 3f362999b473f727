package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"startime/config"
)

// ErrNotFound is returned when a key has no value in its namespace
var ErrNotFound = errors.New("key not found")

// Namespaces used by the client
const (
	NamespacePomodoro   = "pomodoro"
	NamespaceUser       = "user"
	NamespaceBreadcrumb = "breadcrumb"
	NamespaceDevice     = "device"
)

// KVStore is a small namespaced key-value store on SQLite, standing in for
// the browser storage the web client used.
type KVStore struct {
	db *sql.DB
}

func NewKVStore(dataDir string) (*KVStore, error) {
	return OpenKVStore(filepath.Join(dataDir, "startime.db"))
}

// OpenKVStore opens the store at an explicit path (":memory:" works for tests)
func OpenKVStore(dbPath string) (*KVStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one connection: an in-memory database is per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &KVStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *KVStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if err := s.migrateSchema(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// migrateSchema adds columns introduced after the first release
func (s *KVStore) migrateSchema() error {
	hasUpdatedAt, err := s.columnExists("kv", "updated_at")
	if err != nil {
		return fmt.Errorf("failed to check for updated_at column: %w", err)
	}

	if !hasUpdatedAt {
		if _, err := s.db.Exec(`ALTER TABLE kv ADD COLUMN updated_at DATETIME`); err != nil {
			return fmt.Errorf("failed to add updated_at column: %w", err)
		}
	}

	return nil
}

func (s *KVStore) columnExists(tableName, columnName string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid          int
			name         string
			dataType     string
			notNull      int
			defaultValue any
			pk           int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk); err != nil {
			return false, err
		}
		if name == columnName {
			return true, nil
		}
	}

	return false, rows.Err()
}

func validateKey(namespace, key string) error {
	if namespace == "" || key == "" {
		return fmt.Errorf("namespace and key must not be empty")
	}
	if strings.Contains(namespace, ":") {
		return fmt.Errorf("namespace %q must not contain ':'", namespace)
	}
	return nil
}

// Get returns the value stored under namespace:key or ErrNotFound
func (s *KVStore) Get(namespace, key string) (string, error) {
	if err := validateKey(namespace, key); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE namespace = ? AND key = ?`, namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s:%s: %w", namespace, key, err)
	}
	return value, nil
}

func (s *KVStore) Set(namespace, key, value string) error {
	if err := validateKey(namespace, key); err != nil {
		return err
	}

	_, err := s.db.Exec(`
	INSERT INTO kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, namespace, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write %s:%s: %w", namespace, key, err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[KVStore] set %s:%s (%d bytes)", namespace, key, len(value))
	}
	return nil
}

func (s *KVStore) Delete(namespace, key string) error {
	if err := validateKey(namespace, key); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM kv WHERE namespace = ? AND key = ?`, namespace, key)
	return err
}

// Clear removes every key of a namespace
func (s *KVStore) Clear(namespace string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE namespace = ?`, namespace)
	return err
}

// Keys lists the keys of a namespace in sorted order
func (s *KVStore) Keys(namespace string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv WHERE namespace = ? ORDER BY key`, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// GetJSON decodes the value under namespace:key into v
func (s *KVStore) GetJSON(namespace, key string, v any) error {
	raw, err := s.Get(namespace, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode %s:%s: %w", namespace, key, err)
	}
	return nil
}

func (s *KVStore) SetJSON(namespace, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s:%s: %w", namespace, key, err)
	}
	return s.Set(namespace, key, string(data))
}

// DeviceID returns this installation's id, creating one on first use.
// It is sent with agent requests so the backend can tell terminals apart.
func (s *KVStore) DeviceID() (string, error) {
	id, err := s.Get(NamespaceDevice, "id")
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	id = uuid.New().String()
	if err := s.Set(NamespaceDevice, "id", id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *KVStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
