package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/aminrsv/taskboard/internal/errors"
	"github.com/aminrsv/taskboard/internal/models"
	"github.com/aminrsv/taskboard/internal/repository"
	"github.com/aminrsv/taskboard/internal/utils"
	"github.com/aminrsv/taskboard/pkg/logger"
)

// TaskService implements the task recipes: every mutation keeps the
// authoritative task document, the project's taxonomy buckets, and the
// admin's cached summaries in step, and records a history ledger note.
type TaskService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	historyRepo repository.HistoryRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	historyRepo repository.HistoryRepository,
) *TaskService {
	return &TaskService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		historyRepo: historyRepo,
	}
}

// CreateTaskInput represents input for creating a task. Title may be
// empty; Status and Priority default to BACKLOG and LOW; Deadline defaults
// to creation time plus 24 hours.
type CreateTaskInput struct {
	Actor       string
	ProjectID   string
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Deadline    *models.Timestamp
}

// CreateTask writes the new task document, then indexes its summary in the
// project taxonomy and the admin's cache. A crash after the task write
// leaves an orphan task document, not a dangling bucket entry.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	project, err := s.loadProject(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.HasAccess(input.Actor) {
		return nil, apperrors.PermissionDenied("you are not a member of this project")
	}

	if input.Status == "" {
		input.Status = models.TaskStatusBacklog
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityLow
	}
	if !input.Status.Valid() {
		return nil, apperrors.InvalidInput("unknown task status")
	}
	if !input.Priority.Valid() {
		return nil, apperrors.InvalidInput("unknown task priority")
	}

	created := models.Now()
	deadline := created.Add(models.DefaultDeadlineOffset)
	if input.Deadline != nil {
		deadline = *input.Deadline
	}

	task := &models.Task{
		TaskID:      utils.GenerateTaskID(),
		TaskTitle:   input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      input.Status,
		CreatedDT:   created,
		DeadlineDT:  deadline,
		Assignees:   []string{},
		Comments:    []string{},
	}

	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	project.Tasks.Add(task.Status, task.Priority, task.Summary())
	if err := s.projectRepo.Save(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	if err := syncAdminCache(s.userRepo, project); err != nil {
		return nil, err
	}

	if err := s.historyRepo.Append(task.TaskID, fmt.Sprintf("task created by %s", input.Actor)); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	logger.Info().Str("taskID", task.TaskID).Str("projectID", project.ProjectID).Msg("task created")
	return task, nil
}

// GetTask returns a task if the actor has access to the owning project.
func (s *TaskService) GetTask(actor, projectID, taskID string) (*models.Task, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	if !project.HasAccess(actor) {
		return nil, apperrors.PermissionDenied("you are not a member of this project")
	}
	return s.loadOwnedTask(project, taskID)
}

// MoveTaskInput represents a status/priority change.
type MoveTaskInput struct {
	Actor     string
	ProjectID string
	TaskID    string
	Status    models.TaskStatus
	Priority  models.TaskPriority
}

// MoveTask re-buckets a task. The old summary is removed from the bucket
// the taxonomy actually indexes it under, before the task fields are
// mutated; the ordering is load-bearing. A task the project does not index
// is refused, so a mismatched project id cannot plant a summary in a
// foreign taxonomy. Admin or a listed assignee may move a task.
func (s *TaskService) MoveTask(input MoveTaskInput) (*models.Task, error) {
	if !input.Status.Valid() {
		return nil, apperrors.InvalidInput("unknown task status")
	}
	if !input.Priority.Valid() {
		return nil, apperrors.InvalidInput("unknown task priority")
	}

	project, err := s.loadProject(input.ProjectID)
	if err != nil {
		return nil, err
	}
	task, err := s.loadOwnedTask(project, input.TaskID)
	if err != nil {
		return nil, err
	}
	if input.Actor != project.Admin && !task.IsAssignee(input.Actor) {
		return nil, apperrors.PermissionDenied("only the project admin or an assignee can move a task")
	}

	oldStatus, oldPriority := task.Status, task.Priority

	// Remove before mutating. The bucket scan is keyed by id, so a task
	// document that drifted out of its indexed bucket is still found.
	bucketStatus, bucketPriority, _, _ := project.Tasks.Find(task.TaskID)
	project.Tasks.RemoveByID(bucketStatus, bucketPriority, task.TaskID)

	task.Status = input.Status
	task.Priority = input.Priority
	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	project.Tasks.Add(task.Status, task.Priority, task.Summary())
	if err := s.projectRepo.Save(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	if err := syncAdminCache(s.userRepo, project); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("moved from (%s, %s) to (%s, %s) by %s",
		oldStatus, oldPriority, task.Status, task.Priority, input.Actor)
	if err := s.historyRepo.Append(task.TaskID, note); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	logger.Info().Str("taskID", task.TaskID).
		Str("status", string(task.Status)).Str("priority", string(task.Priority)).
		Msg("task moved")
	return task, nil
}

// DeleteTask removes a task document, its bucket entry, the admin's cached
// summary, and the history ledger. Admin only. The bucket scan is keyed by
// taskID so a stale cached title cannot hide the entry; a task document
// that exists but is indexed by no bucket of this project is reported as
// not belonging to it.
func (s *TaskService) DeleteTask(actor, projectID, taskID string) error {
	project, err := s.loadProject(projectID)
	if err != nil {
		return err
	}
	if actor != project.Admin {
		return apperrors.PermissionDenied("only the project admin can delete a task")
	}

	status, priority, _, found := project.Tasks.Find(taskID)
	if !found {
		return apperrors.NotFound("task does not belong to this project")
	}

	project.Tasks.RemoveByID(status, priority, taskID)
	if err := s.projectRepo.Save(project); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if err := syncAdminCache(s.userRepo, project); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := s.historyRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}

	logger.Info().Str("taskID", taskID).Str("projectID", projectID).Msg("task deleted")
	return nil
}

// AssignMembersInput represents input for assigning users to a task.
type AssignMembersInput struct {
	Actor     string
	ProjectID string
	TaskID    string
	Usernames []string
}

// AssignMembers adds assignees to a task. Admin only. Every username must
// be a current member (or the admin) of the owning project at assignment
// time; membership is not re-validated later.
func (s *TaskService) AssignMembers(input AssignMembersInput) (*models.Task, error) {
	if len(input.Usernames) == 0 {
		return nil, apperrors.InvalidInput("at least one username is required")
	}

	project, err := s.loadProject(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if input.Actor != project.Admin {
		return nil, apperrors.PermissionDenied("only the project admin can assign members")
	}
	task, err := s.loadOwnedTask(project, input.TaskID)
	if err != nil {
		return nil, err
	}

	for _, username := range uniqueStrings(input.Usernames) {
		if !project.HasAccess(username) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s is not a member of this project", username))
		}
		if task.IsAssignee(username) {
			continue
		}
		task.Assignees = append(task.Assignees, username)
	}

	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	note := fmt.Sprintf("assigned %s by %s", strings.Join(input.Usernames, ", "), input.Actor)
	if err := s.historyRepo.Append(task.TaskID, note); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}
	return task, nil
}

// UnassignMember removes one assignee from a task. Admin only.
func (s *TaskService) UnassignMember(actor, projectID, taskID, username string) (*models.Task, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	if actor != project.Admin {
		return nil, apperrors.PermissionDenied("only the project admin can unassign members")
	}
	task, err := s.loadOwnedTask(project, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsAssignee(username) {
		return nil, apperrors.NotFound("user is not assigned to this task")
	}

	for i, a := range task.Assignees {
		if a == username {
			task.Assignees = append(task.Assignees[:i:i], task.Assignees[i+1:]...)
			break
		}
	}

	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	if err := s.historyRepo.Append(taskID, fmt.Sprintf("unassigned %s by %s", username, actor)); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}
	return task, nil
}

// AddComment appends a free-text comment. Admin or a listed assignee.
func (s *TaskService) AddComment(actor, projectID, taskID, text string) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.InvalidInput("comment cannot be empty")
	}

	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	task, err := s.loadOwnedTask(project, taskID)
	if err != nil {
		return nil, err
	}
	if actor != project.Admin && !task.IsAssignee(actor) {
		return nil, apperrors.PermissionDenied("only the project admin or an assignee can comment")
	}

	task.Comments = append(task.Comments, text)
	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	if err := s.historyRepo.Append(taskID, fmt.Sprintf("comment added by %s", actor)); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}
	return task, nil
}

// ClearComments empties the comment list. Admin or a listed assignee.
func (s *TaskService) ClearComments(actor, projectID, taskID string) (*models.Task, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	task, err := s.loadOwnedTask(project, taskID)
	if err != nil {
		return nil, err
	}
	if actor != project.Admin && !task.IsAssignee(actor) {
		return nil, apperrors.PermissionDenied("only the project admin or an assignee can clear comments")
	}

	task.Comments = []string{}
	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	if err := s.historyRepo.Append(taskID, fmt.Sprintf("comments cleared by %s", actor)); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}
	return task, nil
}

// RetitleTask changes the task title and rewrites the cached copies in the
// project taxonomy and the admin's summary list, so the cached title never
// drifts from the document. Admin only.
func (s *TaskService) RetitleTask(actor, projectID, taskID, title string) (*models.Task, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	if actor != project.Admin {
		return nil, apperrors.PermissionDenied("only the project admin can retitle a task")
	}
	task, err := s.loadOwnedTask(project, taskID)
	if err != nil {
		return nil, err
	}

	oldTitle := task.TaskTitle
	task.TaskTitle = title
	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	status, priority, _, _ := project.Tasks.Find(taskID)
	project.Tasks.RemoveByID(status, priority, taskID)
	project.Tasks.Add(status, priority, task.Summary())
	if err := s.projectRepo.Save(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	if err := syncAdminCache(s.userRepo, project); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("retitled from %q to %q by %s", oldTitle, title, actor)
	if err := s.historyRepo.Append(taskID, note); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}
	return task, nil
}

// ChangeDeadline sets a new deadline. Admin only.
func (s *TaskService) ChangeDeadline(actor, projectID, taskID string, deadline models.Timestamp) (*models.Task, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	if actor != project.Admin {
		return nil, apperrors.PermissionDenied("only the project admin can change the deadline")
	}
	task, err := s.loadOwnedTask(project, taskID)
	if err != nil {
		return nil, err
	}

	old := task.DeadlineDT
	task.DeadlineDT = deadline
	if err := s.taskRepo.Save(task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	note := fmt.Sprintf("deadline changed from %s to %s by %s", old, deadline, actor)
	if err := s.historyRepo.Append(taskID, note); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}
	return task, nil
}

// History returns the raw ledger lines for display, newest last. Any
// member of the owning project may read them.
func (s *TaskService) History(actor, projectID, taskID string) ([]string, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	if !project.HasAccess(actor) {
		return nil, apperrors.PermissionDenied("you are not a member of this project")
	}
	if _, _, _, found := project.Tasks.Find(taskID); !found {
		return nil, apperrors.NotFound("task does not belong to this project")
	}

	lines, err := s.historyRepo.Read(taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("task has no history")
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return lines, nil
}

// ClearHistory truncates the ledger without deleting it. Admin only.
func (s *TaskService) ClearHistory(actor, projectID, taskID string) error {
	project, err := s.loadProject(projectID)
	if err != nil {
		return err
	}
	if actor != project.Admin {
		return apperrors.PermissionDenied("only the project admin can clear history")
	}
	if _, _, _, found := project.Tasks.Find(taskID); !found {
		return apperrors.NotFound("task does not belong to this project")
	}
	if err := s.historyRepo.Clear(taskID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// loadProject translates a missing document into a NOT_FOUND outcome.
func (s *TaskService) loadProject(projectID string) (*models.Project, error) {
	project, err := s.projectRepo.Load(projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

// loadOwnedTask loads a task only when the project's taxonomy indexes it.
// Every task recipe goes through this check so that a valid task id paired
// with the wrong project id is refused instead of crossing project
// boundaries.
func (s *TaskService) loadOwnedTask(project *models.Project, taskID string) (*models.Task, error) {
	if _, _, _, found := project.Tasks.Find(taskID); !found {
		return nil, apperrors.NotFound("task does not belong to this project")
	}
	return s.loadTask(taskID)
}

// loadTask translates a missing document into a NOT_FOUND outcome.
func (s *TaskService) loadTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.Load(taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("task not found")
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return task, nil
}

// uniqueStrings removes duplicate values preserving order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
