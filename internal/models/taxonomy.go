package models

// TaskSummary is the {taskID, taskTitle} pair indexed inside taxonomy
// buckets. The title is cached display metadata; matches are always keyed
// by TaskID so a stale title never hides an entry.
type TaskSummary struct {
	TaskID    string `json:"taskID"`
	TaskTitle string `json:"taskTitle"`
}

// Taxonomy is the fixed Status × Priority bucket structure embedded in a
// project document. Every (status, priority) cell exists after
// NewTaxonomy or Normalize; a task summary lives in exactly one cell.
type Taxonomy map[TaskStatus]map[TaskPriority][]TaskSummary

// NewTaxonomy builds a taxonomy with every bucket present and empty.
func NewTaxonomy() Taxonomy {
	t := make(Taxonomy, len(AllStatuses))
	t.Normalize()
	return t
}

// Normalize ensures every bucket of the closed matrix exists. Called after
// decoding a project document, so code iterating the matrix never checks
// for missing cells.
func (t Taxonomy) Normalize() {
	for _, s := range AllStatuses {
		if t[s] == nil {
			t[s] = make(map[TaskPriority][]TaskSummary, len(AllPriorities))
		}
		for _, p := range AllPriorities {
			if t[s][p] == nil {
				t[s][p] = []TaskSummary{}
			}
		}
	}
}

// Add appends a summary to the (status, priority) bucket. Callers are
// responsible for not indexing the same task twice.
func (t Taxonomy) Add(status TaskStatus, priority TaskPriority, summary TaskSummary) {
	t[status][priority] = append(t[status][priority], summary)
}

// RemoveByID deletes the entry with the given task id from the
// (status, priority) bucket. It reports whether an entry was removed.
func (t Taxonomy) RemoveByID(status TaskStatus, priority TaskPriority, taskID string) bool {
	bucket := t[status][priority]
	for i, summary := range bucket {
		if summary.TaskID == taskID {
			t[status][priority] = append(bucket[:i:i], bucket[i+1:]...)
			return true
		}
	}
	return false
}

// Find scans every bucket for the task id and returns its placement.
func (t Taxonomy) Find(taskID string) (TaskStatus, TaskPriority, TaskSummary, bool) {
	for _, s := range AllStatuses {
		for _, p := range AllPriorities {
			for _, summary := range t[s][p] {
				if summary.TaskID == taskID {
					return s, p, summary, true
				}
			}
		}
	}
	return "", "", TaskSummary{}, false
}

// Bucket returns the summaries indexed under (status, priority).
func (t Taxonomy) Bucket(status TaskStatus, priority TaskPriority) []TaskSummary {
	return t[status][priority]
}

// Summaries flattens the matrix into a single list, iterating statuses and
// priorities in their declared order.
func (t Taxonomy) Summaries() []TaskSummary {
	var all []TaskSummary
	for _, s := range AllStatuses {
		for _, p := range AllPriorities {
			all = append(all, t[s][p]...)
		}
	}
	return all
}

// Count returns the total number of indexed summaries.
func (t Taxonomy) Count() int {
	n := 0
	for _, s := range AllStatuses {
		for _, p := range AllPriorities {
			n += len(t[s][p])
		}
	}
	return n
}
