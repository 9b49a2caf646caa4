package db

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"sentioai/models"
	"sentioai/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	// Create the directory if it doesn't exist (cross-platform)
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000" // 5 seconds
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

// createTables creates the required tables if they don't exist
func createTables(db *sql.DB) error {
	createJournalTable := `
    CREATE TABLE IF NOT EXISTS journal_entries (
        id TEXT PRIMARY KEY,
        timestamp TEXT NOT NULL,
        emotion TEXT NOT NULL,
        confidence REAL NOT NULL,
        prompt TEXT,
        entry_text TEXT NOT NULL,
        ai_response TEXT,
        voice_data TEXT,
        readable_time TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_journal_timestamp ON journal_entries(timestamp);
    CREATE INDEX IF NOT EXISTS idx_journal_emotion ON journal_entries(emotion);
    `

	if _, err := db.Exec(createJournalTable); err != nil {
		return fmt.Errorf("error creating journal_entries table: %s", err)
	}

	return nil
}

func (s *SQLiteClient) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertEntry stores a journal entry, assigning an ID and timestamps when
// the caller left them unset.
func (s *SQLiteClient) InsertEntry(entry *models.JournalEntry) error {
	normalizeEntry(entry)

	_, err := s.db.Exec(`
		INSERT INTO journal_entries (
			id, timestamp, emotion, confidence, prompt,
			entry_text, ai_response, voice_data, readable_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp,
		entry.Emotion,
		entry.Confidence,
		entry.Prompt,
		entry.EntryText,
		entry.AIResponse,
		entry.VoiceData,
		entry.ReadableTime,
	)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "UNIQUE constraint") || strings.Contains(errMsg, "constraint failed") {
			return fmt.Errorf("journal entry with id %s already exists: %v", entry.ID, err)
		}
		return fmt.Errorf("error storing journal entry: %s", err)
	}
	return nil
}

// GetAllEntries retrieves all journal entries in chronological order.
func (s *SQLiteClient) GetAllEntries() ([]models.JournalEntry, error) {
	return s.queryEntries(`
		SELECT id, timestamp, emotion, confidence, prompt,
		       entry_text, ai_response, voice_data, readable_time
		FROM journal_entries
		ORDER BY timestamp ASC
	`)
}

// GetEntriesByEmotion retrieves entries written under one emotion.
func (s *SQLiteClient) GetEntriesByEmotion(emotion string) ([]models.JournalEntry, error) {
	return s.queryEntries(`
		SELECT id, timestamp, emotion, confidence, prompt,
		       entry_text, ai_response, voice_data, readable_time
		FROM journal_entries
		WHERE emotion = ?
		ORDER BY timestamp ASC
	`, emotion)
}

func (s *SQLiteClient) queryEntries(query string, args ...interface{}) ([]models.JournalEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying journal entries: %s", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		var prompt, aiResponse, voiceData sql.NullString

		err := rows.Scan(
			&e.ID,
			&e.Timestamp,
			&e.Emotion,
			&e.Confidence,
			&prompt,
			&e.EntryText,
			&aiResponse,
			&voiceData,
			&e.ReadableTime,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning journal entry: %s", err)
		}

		e.Prompt = prompt.String
		e.AIResponse = aiResponse.String
		e.VoiceData = voiceData.String
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
