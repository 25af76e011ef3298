package repository

import (
	"errors"

	"github.com/aminrsv/taskboard/internal/models"
)

// ErrNotFound is returned when a referenced document is absent. Callers
// test for it with errors.Is and report a "not found" outcome rather than
// treating the condition as fatal.
var ErrNotFound = errors.New("document not found")

// UserRepository defines the interface for user document access.
type UserRepository interface {
	// Save serializes and overwrites the per-user document.
	Save(user *models.User) error

	// Load reads a user document by username; ErrNotFound if absent.
	Load(username string) (*models.User, error)

	// Delete removes the user document; deleting an absent document is a no-op.
	Delete(username string) error

	// Exists reports whether the user document is present.
	Exists(username string) (bool, error)

	// LoadIndex reads the credential index (all users, username-keyed).
	// An absent index reads as empty.
	LoadIndex() (map[string]models.Credential, error)

	// SaveIndex overwrites the credential index.
	SaveIndex(index map[string]models.Credential) error

	// LoadAdminIndex reads the admin credential records.
	LoadAdminIndex() (map[string]models.Credential, error)

	// SaveAdminIndex overwrites the admin credential records.
	SaveAdminIndex(index map[string]models.Credential) error
}

// ProjectRepository defines the interface for project document access and
// the project-ID registry.
type ProjectRepository interface {
	// Save serializes and overwrites the project document.
	Save(project *models.Project) error

	// Load reads a project document by id; ErrNotFound if absent.
	Load(projectID string) (*models.Project, error)

	// Delete removes the project document; absent is a no-op.
	Delete(projectID string) error

	// Exists reports whether the project document is present.
	Exists(projectID string) (bool, error)

	// IsProjectIDAvailable reports whether id has never been issued. The
	// registry is read fresh from disk on every call.
	IsProjectIDAvailable(id string) (bool, error)

	// RegisterProjectID idempotently adds id to the registry and persists it.
	RegisterProjectID(id string) error

	// IssuedProjectIDs returns every id ever registered.
	IssuedProjectIDs() ([]string, error)
}

// TaskRepository defines the interface for task document access.
type TaskRepository interface {
	// Save serializes and overwrites the task document.
	Save(task *models.Task) error

	// Load reads a task document by id; ErrNotFound if absent.
	Load(taskID string) (*models.Task, error)

	// Delete removes the task document; absent is a no-op.
	Delete(taskID string) error

	// Exists reports whether the task document is present.
	Exists(taskID string) (bool, error)
}

// HistoryRepository defines the interface for the append-only per-task
// history ledger. Ledger content is never loaded as structured data; Read
// returns raw lines for display.
type HistoryRepository interface {
	// Append writes one timestamped line, creating the ledger if missing.
	Append(taskID, note string) error

	// Read returns the ledger lines in append order; ErrNotFound if the
	// task has no ledger yet.
	Read(taskID string) ([]string, error)

	// Clear truncates the ledger to empty; the file continues to exist.
	Clear(taskID string) error

	// Delete removes the ledger file; absent is a no-op.
	Delete(taskID string) error

	// Exists reports whether the ledger file is present.
	Exists(taskID string) (bool, error)
}
