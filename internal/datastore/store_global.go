package datastore

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore initializes the global manager with a DataStore for the backend.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		store, err := NewDataStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize data store: %w", err)
			return
		}

		Manager.Lock()
		Manager.data = store
		Manager.Unlock()
	})

	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called from main
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.data != nil {
			_ = Manager.data.Close()
		}
	})
}

// ClearStore removes all stored data for the backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the tables.
func ClearStore(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		dbFilePath := connStr
		if dbFilePath == "" {
			dbFilePath = contract.GetDBFilePath()
		}
		if dbFilePath == ":memory:" {
			return nil
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(backend, connStr, allTables)

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops the tables if they exist.
func clearSQLTables(backend schema.DatabaseBackend, connStr string, tables []string) error {
	db, _, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	// golang-migrate bookkeeping must go with the tables it describes
	if _, err := db.Exec("DROP TABLE IF EXISTS " + migrationsTable); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", migrationsTable, err)
	}

	return nil
}

// GetDBFilePath returns the path to the default SQLite DB file.
func GetDBFilePath() string {
	return contract.GetDBFilePath()
}
