package repository

import (
	"errors"

	"github.com/aminrsv/taskboard/internal/models"
)

// FileProjectRepository is a flat-file implementation of ProjectRepository.
type FileProjectRepository struct {
	layout Layout
}

// NewProjectRepository creates a new ProjectRepository over the given layout.
func NewProjectRepository(layout Layout) ProjectRepository {
	return &FileProjectRepository{layout: layout}
}

// Save serializes and overwrites the project document.
func (r *FileProjectRepository) Save(project *models.Project) error {
	return writeDocument(r.layout.ProjectPath(project.ProjectID), project)
}

// Load reads a project document by id.
func (r *FileProjectRepository) Load(projectID string) (*models.Project, error) {
	var project models.Project
	if err := readDocument(r.layout.ProjectPath(projectID), &project); err != nil {
		return nil, err
	}
	project.Normalize()
	return &project, nil
}

// Delete removes the project document.
func (r *FileProjectRepository) Delete(projectID string) error {
	return deleteDocument(r.layout.ProjectPath(projectID))
}

// Exists reports whether the project document is present.
func (r *FileProjectRepository) Exists(projectID string) (bool, error) {
	return documentExists(r.layout.ProjectPath(projectID))
}

// loadRegistry reads the project-ID registry fresh from disk. An absent
// registry reads as empty.
func (r *FileProjectRepository) loadRegistry() ([]string, error) {
	ids := []string{}
	if err := readDocument(r.layout.ProjectIDsPath(), &ids); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	return ids, nil
}

// IsProjectIDAvailable reports whether id has never been issued.
func (r *FileProjectRepository) IsProjectIDAvailable(id string) (bool, error) {
	ids, err := r.loadRegistry()
	if err != nil {
		return false, err
	}
	for _, issued := range ids {
		if issued == id {
			return false, nil
		}
	}
	return true, nil
}

// RegisterProjectID idempotently adds id to the registry and persists it.
func (r *FileProjectRepository) RegisterProjectID(id string) error {
	ids, err := r.loadRegistry()
	if err != nil {
		return err
	}
	for _, issued := range ids {
		if issued == id {
			return nil
		}
	}
	return writeDocument(r.layout.ProjectIDsPath(), append(ids, id))
}

// IssuedProjectIDs returns every id ever registered.
func (r *FileProjectRepository) IssuedProjectIDs() ([]string, error) {
	return r.loadRegistry()
}
