package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/aminrsv/taskboard/internal/errors"
	"github.com/aminrsv/taskboard/internal/models"
)

// renderTaxonomy draws the project's task index as a grid: one bordered
// column per status, stacked priority sub-tables inside each column.
func renderTaxonomy(t models.Taxonomy) string {
	columns := make([]string, 0, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		var b strings.Builder
		b.WriteString(statusHeaderStyle.Render(string(status)))
		for _, priority := range models.AllPriorities {
			bucket := t.Bucket(status, priority)
			if len(bucket) == 0 {
				continue
			}
			b.WriteString("\n" + priorityHeaderStyle.Render(string(priority)))
			for _, summary := range bucket {
				title := summary.TaskTitle
				if title == "" {
					title = dimStyle.Render("(untitled)")
				}
				id := summary.TaskID
				if len(id) > 6 {
					id = id[:6]
				}
				b.WriteString(fmt.Sprintf("\n %s %s", dimStyle.Render(id), title))
			}
		}
		columns = append(columns, columnStyle.Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// renderTask draws the full task document for display.
func renderTask(task *models.Task) string {
	var b strings.Builder
	title := task.TaskTitle
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(dimStyle.Render("id: "+task.TaskID) + "\n")
	b.WriteString(fmt.Sprintf("status: %s   priority: %s\n", task.Status, task.Priority))
	b.WriteString(fmt.Sprintf("created: %s   deadline: %s\n", task.CreatedDT, task.DeadlineDT))
	if task.Description != "" {
		b.WriteString(task.Description + "\n")
	}
	if len(task.Assignees) > 0 {
		b.WriteString("assignees: " + strings.Join(task.Assignees, ", ") + "\n")
	}
	for i, comment := range task.Comments {
		b.WriteString(fmt.Sprintf("comment %d: %s\n", i+1, comment))
	}
	return b.String()
}

// renderError maps a recipe outcome to a colored one-line message.
func renderError(err error) string {
	var op *apperrors.OpError
	if errors.As(err, &op) {
		return errorStyle.Render(op.Message)
	}
	return errorStyle.Render("something went wrong: " + err.Error())
}
