// Package wal is an append-only, fsynced JSON-lines log. Content events that
// could not be delivered are parked here until a replay succeeds.
package wal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
)

// Entry is one parked record.
type Entry struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type WAL struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// New opens (or creates) the log at filePath.
func New(filePath string) (*WAL, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, err
	}

	file, err := openAppend(filePath)
	if err != nil {
		return nil, err
	}

	return &WAL{filePath: filePath, file: file}, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
}

// Write appends an entry and syncs it to disk before returning.
func (w *WAL) Write(entry Entry) error {
	start := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("WAL: Failed to marshal entry", zap.String("id", entry.ID), zap.Error(err))
		return err
	}

	if _, err := w.file.Write(append(data, '\n')); err != nil {
		logger.Log.Error("WAL: Failed to write to file", zap.String("id", entry.ID), zap.Error(err))
		return err
	}

	if err := w.file.Sync(); err != nil {
		logger.Log.Error("WAL: Failed to sync to disk", zap.String("id", entry.ID), zap.Error(err))
		return err
	}

	logger.Log.Debug("WAL: Entry written and synced",
		zap.String("id", entry.ID),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// ReadAll returns every entry in write order. Lines that fail to decode are skipped.
func (w *WAL) ReadAll() ([]Entry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.readAllUnsafe()
}

// Cleanup drops the entries with the given ids by rewriting the file.
func (w *WAL) Cleanup(doneIDs []string) error {
	if len(doneIDs) == 0 {
		return nil
	}

	start := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()

	all, err := w.readAllUnsafe()
	if err != nil {
		logger.Log.Error("WAL: Failed to read entries for cleanup", zap.Error(err))
		return err
	}

	done := make(map[string]struct{}, len(doneIDs))
	for _, id := range doneIDs {
		done[id] = struct{}{}
	}

	remaining := make([]Entry, 0, len(all))
	for _, entry := range all {
		if _, ok := done[entry.ID]; !ok {
			remaining = append(remaining, entry)
		}
	}

	tempFile := w.filePath + ".tmp"
	if err := writeEntries(tempFile, remaining); err != nil {
		logger.Log.Error("WAL: Failed to write temp file", zap.String("temp_file", tempFile), zap.Error(err))
		return err
	}

	if err := w.file.Close(); err != nil {
		logger.Log.Error("WAL: Failed to close file for cleanup", zap.Error(err))
		return err
	}

	if err := os.Rename(tempFile, w.filePath); err != nil {
		logger.Log.Error("WAL: Failed to rename temp file",
			zap.String("temp_file", tempFile),
			zap.String("target_file", w.filePath),
			zap.Error(err),
		)
		// Keep the handle usable even though the rewrite failed.
		if reopened, reopenErr := openAppend(w.filePath); reopenErr == nil {
			w.file = reopened
		}
		return err
	}

	// The old handle points at the replaced inode; appends must go to the new file.
	newFile, err := openAppend(w.filePath)
	if err != nil {
		logger.Log.Error("WAL: Failed to reopen file after cleanup", zap.String("file_path", w.filePath), zap.Error(err))
		return err
	}
	w.file = newFile

	logger.Log.Info("WAL: Cleanup completed",
		zap.Int("before_count", len(all)),
		zap.Int("deleted_count", len(all)-len(remaining)),
		zap.Int("remaining_count", len(remaining)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func writeEntries(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	buf := bufio.NewWriter(f)
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			f.Close()
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (w *WAL) readAllUnsafe() ([]Entry, error) {
	file, err := os.Open(w.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	entries := []Entry{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
