package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add lookup indices for post history",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_post_history_post_id ON post_history(post_id);
			CREATE INDEX IF NOT EXISTS idx_post_history_reply_to ON post_history(reply_to);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_post_history_post_id;
			DROP INDEX IF EXISTS idx_post_history_reply_to;
		`,
	},
	{
		Version: 2,
		Name:    "Store empty optional post fields as NULL",
		Up: `
			UPDATE post_history SET reply_to = NULL WHERE reply_to = '';
			UPDATE post_history SET mood = NULL WHERE mood = '';
			UPDATE post_history SET poll_option = NULL WHERE poll_option = '';
		`,
		Down: `
			-- NULL and empty read back the same
		`,
	},
	{
		Version: 3,
		Name:    "Add composite index for per-file listing",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_post_history_file_timestamp ON post_history(social_file, timestamp DESC);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_post_history_file_timestamp;
		`,
	},
}

// InitSchema creates all tables required across all modules
// This must be called before running migrations to ensure all tables exist
func InitSchema(db *sql.DB) error {
	schema := `
	-- Submitted posts and replies
	CREATE TABLE IF NOT EXISTS post_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		kind TEXT NOT NULL,
		post_id TEXT NOT NULL,
		reply_to TEXT,
		social_file TEXT NOT NULL,
		content TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		mood TEXT,
		poll_option TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_post_history_timestamp ON post_history(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_post_history_kind ON post_history(kind);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Run executes all pending migrations on the database
func Run(db *sql.DB) error {
	return RunMigrations(db, AllMigrations)
}

// RunMigrations applies the migrations newer than the recorded version, in order
func RunMigrations(db *sql.DB, migrations []Migration) error {
	// Initialize schema first to ensure all tables exist
	if err := InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Create migrations tracking table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
