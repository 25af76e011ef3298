package repository

import (
	"github.com/aminrsv/taskboard/internal/models"
)

// FileTaskRepository is a flat-file implementation of TaskRepository.
type FileTaskRepository struct {
	layout Layout
}

// NewTaskRepository creates a new TaskRepository over the given layout.
func NewTaskRepository(layout Layout) TaskRepository {
	return &FileTaskRepository{layout: layout}
}

// Save serializes and overwrites the task document.
func (r *FileTaskRepository) Save(task *models.Task) error {
	return writeDocument(r.layout.TaskPath(task.TaskID), task)
}

// Load reads a task document by id.
func (r *FileTaskRepository) Load(taskID string) (*models.Task, error) {
	var task models.Task
	if err := readDocument(r.layout.TaskPath(taskID), &task); err != nil {
		return nil, err
	}
	if task.Assignees == nil {
		task.Assignees = []string{}
	}
	if task.Comments == nil {
		task.Comments = []string{}
	}
	return &task, nil
}

// Delete removes the task document.
func (r *FileTaskRepository) Delete(taskID string) error {
	return deleteDocument(r.layout.TaskPath(taskID))
}

// Exists reports whether the task document is present.
func (r *FileTaskRepository) Exists(taskID string) (bool, error) {
	return documentExists(r.layout.TaskPath(taskID))
}
