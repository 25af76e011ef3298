package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateTaskID returns a new globally-unique task identifier. Tasks are
// looked up directly by this id as a filename key; collision probability is
// negligible, so no registry of issued task ids is kept.
func GenerateTaskID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
