package models

import "time"

type TaskStatus string

const (
	TaskStatusBacklog  TaskStatus = "BACKLOG"
	TaskStatusTodo     TaskStatus = "TODO"
	TaskStatusDoing    TaskStatus = "DOING"
	TaskStatusDone     TaskStatus = "DONE"
	TaskStatusArchived TaskStatus = "ARCHIVED"
)

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "LOW"
	TaskPriorityMedium   TaskPriority = "MEDIUM"
	TaskPriorityHigh     TaskPriority = "HIGH"
	TaskPriorityCritical TaskPriority = "CRITICAL"
)

// AllStatuses lists every task status in display order. The taxonomy is
// sized by this slice, so adding a status is a one-constant change.
var AllStatuses = []TaskStatus{
	TaskStatusBacklog,
	TaskStatusTodo,
	TaskStatusDoing,
	TaskStatusDone,
	TaskStatusArchived,
}

// AllPriorities lists every task priority in display order.
var AllPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityCritical,
}

// Valid reports whether s is one of the closed status set.
func (s TaskStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Valid reports whether p is one of the closed priority set.
func (p TaskPriority) Valid() bool {
	for _, known := range AllPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// DefaultDeadlineOffset is applied to the creation time when the caller
// supplies no deadline.
const DefaultDeadlineOffset = 24 * time.Hour

// Task is the authoritative task document, persisted as tasks/<taskID>.json.
// The JSON keys mirror the on-disk format, mixed casing included.
type Task struct {
	TaskID      string       `json:"taskID"`
	TaskTitle   string       `json:"taskTitle"`
	Description string       `json:"Description"`
	Priority    TaskPriority `json:"Priority"`
	Status      TaskStatus   `json:"Status"`
	CreatedDT   Timestamp    `json:"createdDT"`
	DeadlineDT  Timestamp    `json:"deadlineDT"`
	Assignees   []string     `json:"Assignees"`
	Comments    []string     `json:"comments"`
}

// Summary returns the lightweight form cached in taxonomy buckets and
// user project lists.
func (t *Task) Summary() TaskSummary {
	return TaskSummary{TaskID: t.TaskID, TaskTitle: t.TaskTitle}
}

// IsAssignee reports whether username is currently assigned to the task.
func (t *Task) IsAssignee(username string) bool {
	for _, a := range t.Assignees {
		if a == username {
			return true
		}
	}
	return false
}
