package db

import (
	"path/filepath"
	"strings"
	"time"

	"sentioai/models"
	"sentioai/utils"
)

// JournalStore is the single-table persistence contract for journal entries.
type JournalStore interface {
	InsertEntry(entry *models.JournalEntry) error
	GetAllEntries() ([]models.JournalEntry, error)
	GetEntriesByEmotion(emotion string) ([]models.JournalEntry, error)
	Close() error
}

// NewJournalStore selects the storage backend from DB_TYPE (sqlite or mongo).
func NewJournalStore() (JournalStore, error) {
	switch strings.ToLower(utils.GetEnv("DB_TYPE", "sqlite")) {
	case "mongo", "mongodb":
		return NewMongoClient(utils.GetEnv("MONGO_URI", "mongodb://localhost:27017"))
	default:
		return NewSQLiteClient(utils.GetEnv("DB_PATH", filepath.Join("data", "sentio_journal.db")))
	}
}

// normalizeEntry fills in identity and timestamps when the caller left them
// unset. Both backends call this before writing.
func normalizeEntry(entry *models.JournalEntry) {
	now := time.Now()
	if entry.ID == "" {
		entry.ID = utils.GenerateUniqueID()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = now.Format(time.RFC3339)
	}
	if entry.ReadableTime == "" {
		entry.ReadableTime = now.Format("03:04 PM on January 02, 2006")
	}
}
