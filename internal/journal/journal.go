package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ayberk/groupora/internal/models"
	"github.com/ayberk/groupora/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entry records one applied reaction transition. From is empty on first
// reactions. Delta is the like-counter change the transition carried, so a
// reconciliation pass can replay history against Message.Likes.
type Entry struct {
	EntryID   string               `json:"entry_id"`
	UserID    uint                 `json:"user_id"`
	MessageID uint                 `json:"message_id"`
	From      models.ReactionState `json:"from,omitempty"`
	To        models.ReactionState `json:"to"`
	Delta     int                  `json:"delta"`
	Timestamp time.Time            `json:"timestamp"`
}

// NewEntry builds a journal entry with a fresh id and timestamp.
func NewEntry(userID, messageID uint, from, to models.ReactionState, delta int) Entry {
	return Entry{
		EntryID:   uuid.New().String(),
		UserID:    userID,
		MessageID: messageID,
		From:      from,
		To:        to,
		Delta:     delta,
		Timestamp: time.Now(),
	}
}

// Journal is an append-only, fsync'd line-JSON log of reaction transitions.
// It exists because the counter and the reaction row live in one transaction
// but the process can still die between commit and any external observation;
// the journal lets an offline pass re-derive counters from reaction history.
type Journal struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

func Open(filePath string) (*Journal, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Journal{
		filePath: filePath,
		file:     file,
	}, nil
}

// Append writes one entry and syncs it to disk before returning.
func (j *Journal) Append(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("journal: failed to marshal entry",
			zap.String("entry_id", entry.EntryID),
			zap.Error(err),
		)
		return err
	}

	if _, err := j.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("journal: failed to write entry",
			zap.String("entry_id", entry.EntryID),
			zap.Error(err),
		)
		return err
	}

	if err := j.file.Sync(); err != nil {
		logger.Log.Error("journal: failed to sync to disk",
			zap.String("entry_id", entry.EntryID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Debug("journal: entry appended",
		zap.String("entry_id", entry.EntryID),
		zap.Uint("message_id", entry.MessageID),
		zap.Int("delta", entry.Delta),
	)

	return nil
}

// ReadAll returns every entry currently in the journal.
func (j *Journal) ReadAll() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.readAllUnsafe()
}

// Compact drops entries whose ids a reconciliation pass has already verified,
// rewriting the file atomically and reopening it for further appends.
func (j *Journal) Compact(processedIDs []string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	allEntries, err := j.readAllUnsafe()
	if err != nil {
		logger.Log.Error("journal: failed to read entries for compaction",
			zap.Error(err),
		)
		return err
	}

	processed := make(map[string]bool, len(processedIDs))
	for _, id := range processedIDs {
		processed[id] = true
	}

	var remaining []Entry
	for _, entry := range allEntries {
		if !processed[entry.EntryID] {
			remaining = append(remaining, entry)
		}
	}

	if err := j.file.Close(); err != nil {
		logger.Log.Error("journal: failed to close file for compaction",
			zap.Error(err),
		)
		return err
	}

	tempFile := j.filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		logger.Log.Error("journal: failed to create temp file",
			zap.String("temp_file", tempFile),
			zap.Error(err),
		)
		return err
	}

	for _, entry := range remaining {
		data, _ := json.Marshal(entry)
		f.WriteString(string(data) + "\n")
	}

	f.Sync()
	f.Close()

	if err := os.Rename(tempFile, j.filePath); err != nil {
		logger.Log.Error("journal: failed to replace journal file",
			zap.String("temp_file", tempFile),
			zap.Error(err),
		)
		return err
	}

	// Reopen with the same flags so later appends land in the new file
	newFile, err := os.OpenFile(j.filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		logger.Log.Error("journal: failed to reopen file after compaction",
			zap.String("file_path", j.filePath),
			zap.Error(err),
		)
		return err
	}
	j.file = newFile

	logger.Log.Info("journal: compaction completed",
		zap.Int("before_count", len(allEntries)),
		zap.Int("remaining_count", len(remaining)),
	)

	return nil
}

// readAllUnsafe reads all entries without locking (internal use only)
func (j *Journal) readAllUnsafe() ([]Entry, error) {
	file, err := os.Open(j.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}
