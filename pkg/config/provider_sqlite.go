package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements Provider for SQLite database configuration.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider.
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	p := &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}
	if err := p.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// ensureSchema creates the configuration tables if they don't exist yet.
func (p *SQLiteProvider) ensureSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS http_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			listen_addr TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS database_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			enabled INTEGER NOT NULL DEFAULT 0,
			connection_string TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			tolerance_deg REAL NOT NULL DEFAULT 0,
			min_members INTEGER NOT NULL DEFAULT 0,
			default_dataset TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range schema {
		if _, err := p.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create config schema: %w", err)
		}
	}
	return nil
}

// LoadConfig loads the complete configuration from the SQLite database.
// Missing rows fall back to defaults rather than failing, so a freshly
// initialized database is usable immediately.
func (p *SQLiteProvider) LoadConfig() (*Data, error) {
	config := &Data{}

	err := p.db.QueryRow(`SELECT listen_addr FROM http_config WHERE id = 1`).
		Scan(&config.HTTP.ListenAddr)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load http config: %w", err)
	}

	err = p.db.QueryRow(`SELECT enabled, connection_string FROM database_config WHERE id = 1`).
		Scan(&config.Database.Enabled, &config.Database.ConnectionString)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	err = p.db.QueryRow(`SELECT tolerance_deg, min_members, default_dataset FROM analysis_config WHERE id = 1`).
		Scan(&config.Analysis.ToleranceDeg, &config.Analysis.MinMembers, &config.Analysis.DefaultDataset)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load analysis config: %w", err)
	}

	applyDefaults(config)
	return config, nil
}

// SaveConfig writes the configuration back to the database.
func (p *SQLiteProvider) SaveConfig(config *Data) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin config transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO http_config (id, listen_addr) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET listen_addr = excluded.listen_addr`,
		config.HTTP.ListenAddr,
	); err != nil {
		return fmt.Errorf("failed to save http config: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO database_config (id, enabled, connection_string) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET enabled = excluded.enabled,
		 connection_string = excluded.connection_string`,
		config.Database.Enabled, config.Database.ConnectionString,
	); err != nil {
		return fmt.Errorf("failed to save database config: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO analysis_config (id, tolerance_deg, min_members, default_dataset) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET tolerance_deg = excluded.tolerance_deg,
		 min_members = excluded.min_members, default_dataset = excluded.default_dataset`,
		config.Analysis.ToleranceDeg, config.Analysis.MinMembers, config.Analysis.DefaultDataset,
	); err != nil {
		return fmt.Errorf("failed to save analysis config: %w", err)
	}

	return tx.Commit()
}

// IsReadOnly returns false; SQLite configs can be updated at runtime.
func (p *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the underlying database handle.
func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}
