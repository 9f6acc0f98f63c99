package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/orgsocial/internal/migrations"
)

const timestampLayout = "2006-01-02 15:04:05"

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	// Run database migrations
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save records a submitted post. The assigned id is stored back into e.
func (m *Manager) Save(e *Entry) error {
	tagsJSON, err := json.Marshal(e.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	query := `
		INSERT INTO post_history (
			timestamp, kind, post_id, reply_to, social_file, content, tags, mood, poll_option
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := m.db.Exec(query,
		e.Timestamp.UTC().Format(timestampLayout),
		e.Kind,
		e.PostID,
		nullString(e.ReplyTo),
		e.SocialFile,
		e.Content,
		string(tagsJSON),
		nullString(e.Mood),
		nullString(e.PollOption),
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

// Load returns the newest entries first. limit <= 0 means all.
func (m *Manager) Load(limit int) ([]Entry, error) {
	query := `
		SELECT id, timestamp, kind, post_id, reply_to, social_file, content, tags, mood, poll_option
		FROM post_history
		ORDER BY timestamp DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

// LoadReplies returns the replies recorded for a target post
func (m *Manager) LoadReplies(replyTo string) ([]Entry, error) {
	rows, err := m.db.Query(`
		SELECT id, timestamp, kind, post_id, reply_to, social_file, content, tags, mood, poll_option
		FROM post_history
		WHERE reply_to = ?
		ORDER BY timestamp DESC, id DESC
	`, replyTo)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

func (m *Manager) scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry

	for rows.Next() {
		var e Entry
		var timestamp string
		var replyTo, mood, pollOption sql.NullString
		var tagsJSON string

		err := rows.Scan(
			&e.ID,
			&timestamp,
			&e.Kind,
			&e.PostID,
			&replyTo,
			&e.SocialFile,
			&e.Content,
			&tagsJSON,
			&mood,
			&pollOption,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
			e.Tags = nil
		}

		parsedTime, err := time.ParseInLocation(timestampLayout, timestamp, time.UTC)
		if err != nil {
			// Try RFC3339 format as fallback
			parsedTime, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsedTime = time.Time{}
			}
		}
		e.Timestamp = parsedTime
		e.ReplyTo = replyTo.String
		e.Mood = mood.String
		e.PollOption = pollOption.String

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM post_history")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) Delete(id int64) error {
	_, err := m.db.Exec("DELETE FROM post_history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM post_history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
