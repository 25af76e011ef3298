package repository

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout resolves the on-disk location of every persisted document under a
// single data directory:
//
//	users/<username>.json   full user documents
//	users.json              credential index
//	projects/<id>.json      full project documents
//	projectsID.json         project-ID registry
//	tasks/<id>.json         full task documents
//	tasks/History/          per-task history ledgers
//	admin.json              admin credential records
type Layout struct {
	DataDir string
}

// NewLayout creates a Layout rooted at dataDir.
func NewLayout(dataDir string) Layout {
	return Layout{DataDir: dataDir}
}

// Ensure creates the directory structure if absent.
func (l Layout) Ensure() error {
	for _, dir := range []string{
		filepath.Join(l.DataDir, "users"),
		filepath.Join(l.DataDir, "projects"),
		l.HistoryDir(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return nil
}

// UserPath returns the path of a per-user document.
func (l Layout) UserPath(username string) string {
	return filepath.Join(l.DataDir, "users", username+".json")
}

// UsersIndexPath returns the path of the credential index.
func (l Layout) UsersIndexPath() string {
	return filepath.Join(l.DataDir, "users.json")
}

// AdminIndexPath returns the path of the admin credential records.
func (l Layout) AdminIndexPath() string {
	return filepath.Join(l.DataDir, "admin.json")
}

// ProjectPath returns the path of a project document.
func (l Layout) ProjectPath(projectID string) string {
	return filepath.Join(l.DataDir, "projects", projectID+".json")
}

// ProjectIDsPath returns the path of the project-ID registry.
func (l Layout) ProjectIDsPath() string {
	return filepath.Join(l.DataDir, "projectsID.json")
}

// TaskPath returns the path of a task document.
func (l Layout) TaskPath(taskID string) string {
	return filepath.Join(l.DataDir, "tasks", taskID+".json")
}

// HistoryDir returns the ledger directory.
func (l Layout) HistoryDir() string {
	return filepath.Join(l.DataDir, "tasks", "History")
}

// HistoryPath returns the path of a per-task ledger.
func (l Layout) HistoryPath(taskID string) string {
	return filepath.Join(l.HistoryDir(), fmt.Sprintf("history-%s.txt", taskID))
}
