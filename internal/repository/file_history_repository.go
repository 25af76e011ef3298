package repository

import (
	"bufio"
	"fmt"
	"os"

	"github.com/aminrsv/taskboard/internal/models"
)

// FileHistoryRepository keeps one append-only text ledger per task. Each
// line is self-contained and timestamped, so interleaved appends from
// separate sessions stay readable.
type FileHistoryRepository struct {
	layout Layout
}

// NewHistoryRepository creates a new HistoryRepository over the given layout.
func NewHistoryRepository(layout Layout) HistoryRepository {
	return &FileHistoryRepository{layout: layout}
}

// Append writes one timestamped line, creating the ledger if missing. The
// file handle is scoped to the call; no shared state survives it.
func (r *FileHistoryRepository) Append(taskID, note string) error {
	f, err := os.OpenFile(r.layout.HistoryPath(taskID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history ledger for %s: %w", taskID, err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] : %s\n", models.Now(), note)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append history for %s: %w", taskID, err)
	}
	return nil
}

// Read returns the ledger lines in append order, read lazily line by line.
func (r *FileHistoryRepository) Read(taskID string) ([]string, error) {
	f, err := os.Open(r.layout.HistoryPath(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open history ledger for %s: %w", taskID, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history ledger for %s: %w", taskID, err)
	}
	return lines, nil
}

// Clear truncates the ledger to empty; distinct from Delete, the file
// continues to exist.
func (r *FileHistoryRepository) Clear(taskID string) error {
	f, err := os.OpenFile(r.layout.HistoryPath(taskID), os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to clear history ledger for %s: %w", taskID, err)
	}
	return f.Close()
}

// Delete removes the ledger file; absent is a no-op.
func (r *FileHistoryRepository) Delete(taskID string) error {
	return deleteDocument(r.layout.HistoryPath(taskID))
}

// Exists reports whether the ledger file is present.
func (r *FileHistoryRepository) Exists(taskID string) (bool, error) {
	return documentExists(r.layout.HistoryPath(taskID))
}
