package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/aminrsv/taskboard/internal/errors"
	"github.com/aminrsv/taskboard/internal/models"
	"github.com/aminrsv/taskboard/internal/repository"
)

// setupProjectEnv provisions alice as admin of P1 with member bob.
func setupProjectEnv(t *testing.T) testEnv {
	t.Helper()

	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.signup(t, "bob", "bob@x.com")
	env.createProject(t, "alice", "P1", "Launch")
	require.NoError(t, env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"}))
	return env
}

func TestCreateTaskDefaults(t *testing.T) {
	env := setupProjectEnv(t)

	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "bob", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)
	require.Len(t, task.TaskID, 12)
	require.Equal(t, models.TaskStatusBacklog, task.Status)
	require.Equal(t, models.TaskPriorityLow, task.Priority)
	require.Equal(t, task.CreatedDT.Add(24*time.Hour), task.DeadlineDT)
	require.Empty(t, task.Assignees)
	require.Empty(t, task.Comments)

	// Summary landed in the (BACKLOG, LOW) bucket and the admin's cache.
	project, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	bucket := project.Tasks.Bucket(models.TaskStatusBacklog, models.TaskPriorityLow)
	require.Len(t, bucket, 1)
	require.Equal(t, task.TaskID, bucket[0].TaskID)
	require.Equal(t, "ship it", bucket[0].TaskTitle)

	alice, err := env.userRepo.Load("alice")
	require.NoError(t, err)
	require.Len(t, alice.Projects["P1"].Tasks, 1)
	require.Equal(t, task.TaskID, alice.Projects["P1"].Tasks[0].TaskID)

	// Creation is on the ledger.
	lines, err := env.tasks.History("alice", "P1", task.TaskID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "task created by bob")
}

func TestCreateTaskExplicitPlacement(t *testing.T) {
	env := setupProjectEnv(t)

	deadline, err := models.ParseTimestamp("2026-12-01 09:00:00")
	require.NoError(t, err)

	task, err := env.tasks.CreateTask(CreateTaskInput{
		Actor:     "alice",
		ProjectID: "P1",
		Title:     "triage",
		Status:    models.TaskStatusDoing,
		Priority:  models.TaskPriorityCritical,
		Deadline:  &deadline,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusDoing, task.Status)
	require.Equal(t, models.TaskPriorityCritical, task.Priority)
	require.Equal(t, deadline, task.DeadlineDT)
}

func TestCreateTaskRejections(t *testing.T) {
	env := setupProjectEnv(t)
	env.signup(t, "carol", "carol@x.com")

	_, err := env.tasks.CreateTask(CreateTaskInput{Actor: "carol", ProjectID: "P1", Title: "nope"})
	require.True(t, apperrors.IsPermissionDenied(err))

	_, err = env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Status: "WAITING"})
	require.True(t, apperrors.IsInvalidInput(err))

	_, err = env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "nope", Title: "x"})
	require.True(t, apperrors.IsNotFound(err))
}

func TestMoveTaskKeepsSingleBucketEntry(t *testing.T) {
	env := setupProjectEnv(t)
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)

	moved, err := env.tasks.MoveTask(MoveTaskInput{
		Actor:     "alice",
		ProjectID: "P1",
		TaskID:    task.TaskID,
		Status:    models.TaskStatusDoing,
		Priority:  models.TaskPriorityHigh,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusDoing, moved.Status)
	require.Equal(t, models.TaskPriorityHigh, moved.Priority)

	project, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	require.Equal(t, 1, project.Tasks.Count())
	require.Empty(t, project.Tasks.Bucket(models.TaskStatusBacklog, models.TaskPriorityLow))
	require.Len(t, project.Tasks.Bucket(models.TaskStatusDoing, models.TaskPriorityHigh), 1)

	lines, err := env.tasks.History("alice", "P1", task.TaskID)
	require.NoError(t, err)
	require.Contains(t, lines[len(lines)-1], "moved from (BACKLOG, LOW) to (DOING, HIGH) by alice")
}

func TestMoveTaskPermissions(t *testing.T) {
	env := setupProjectEnv(t)
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)

	// bob is a member but not an assignee.
	_, err = env.tasks.MoveTask(MoveTaskInput{
		Actor: "bob", ProjectID: "P1", TaskID: task.TaskID,
		Status: models.TaskStatusDone, Priority: models.TaskPriorityLow,
	})
	require.True(t, apperrors.IsPermissionDenied(err))

	_, err = env.tasks.AssignMembers(AssignMembersInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID, Usernames: []string{"bob"},
	})
	require.NoError(t, err)

	_, err = env.tasks.MoveTask(MoveTaskInput{
		Actor: "bob", ProjectID: "P1", TaskID: task.TaskID,
		Status: models.TaskStatusDone, Priority: models.TaskPriorityLow,
	})
	require.NoError(t, err)
}

func TestMoveTaskRecoversStalePlacement(t *testing.T) {
	env := setupProjectEnv(t)
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)

	// Drift the task document out of its indexed bucket, as a crash between
	// the two writes would.
	task.Status = models.TaskStatusTodo
	require.NoError(t, env.taskRepo.Save(task))

	_, err = env.tasks.MoveTask(MoveTaskInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID,
		Status: models.TaskStatusDone, Priority: models.TaskPriorityMedium,
	})
	require.NoError(t, err)

	project, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	require.Equal(t, 1, project.Tasks.Count())
	require.Len(t, project.Tasks.Bucket(models.TaskStatusDone, models.TaskPriorityMedium), 1)
}

func TestTaskRecipesRejectForeignProject(t *testing.T) {
	env := setupProjectEnv(t)
	env.createProject(t, "alice", "P2", "Side quest")

	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P2", Title: "isolated"})
	require.NoError(t, err)

	// alice admins both projects, yet P1 does not index the task: every
	// recipe must refuse rather than cross the project boundary.
	_, err = env.tasks.MoveTask(MoveTaskInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID,
		Status: models.TaskStatusDoing, Priority: models.TaskPriorityHigh,
	})
	require.True(t, apperrors.IsNotFound(err))

	// No phantom entry in P1, and P2 still indexes the task where the
	// document says it is.
	p1, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	require.Equal(t, 0, p1.Tasks.Count())

	p2, err := env.projectRepo.Load("P2")
	require.NoError(t, err)
	status, priority, _, found := p2.Tasks.Find(task.TaskID)
	require.True(t, found)
	require.Equal(t, models.TaskStatusBacklog, status)
	require.Equal(t, models.TaskPriorityLow, priority)

	stored, err := env.taskRepo.Load(task.TaskID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusBacklog, stored.Status)
	require.Equal(t, models.TaskPriorityLow, stored.Priority)

	_, err = env.tasks.GetTask("alice", "P1", task.TaskID)
	require.True(t, apperrors.IsNotFound(err))

	_, err = env.tasks.AssignMembers(AssignMembersInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID, Usernames: []string{"bob"},
	})
	require.True(t, apperrors.IsNotFound(err))

	_, err = env.tasks.AddComment("alice", "P1", task.TaskID, "sneaky")
	require.True(t, apperrors.IsNotFound(err))

	_, err = env.tasks.RetitleTask("alice", "P1", task.TaskID, "hijacked")
	require.True(t, apperrors.IsNotFound(err))

	_, err = env.tasks.History("alice", "P1", task.TaskID)
	require.True(t, apperrors.IsNotFound(err))

	err = env.tasks.ClearHistory("alice", "P1", task.TaskID)
	require.True(t, apperrors.IsNotFound(err))
}

func TestDeleteTask(t *testing.T) {
	env := setupProjectEnv(t)
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)

	err = env.tasks.DeleteTask("bob", "P1", task.TaskID)
	require.True(t, apperrors.IsPermissionDenied(err))

	require.NoError(t, env.tasks.DeleteTask("alice", "P1", task.TaskID))

	_, err = env.taskRepo.Load(task.TaskID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	project, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	require.Equal(t, 0, project.Tasks.Count())

	exists, err := env.historyRepo.Exists(task.TaskID)
	require.NoError(t, err)
	require.False(t, exists)

	err = env.tasks.DeleteTask("alice", "P1", task.TaskID)
	require.True(t, apperrors.IsNotFound(err))
}

func TestAssignMembers(t *testing.T) {
	env := setupProjectEnv(t)
	env.signup(t, "carol", "carol@x.com")
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)

	// Non-members cannot be assigned; the admin can be.
	_, err = env.tasks.AssignMembers(AssignMembersInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID, Usernames: []string{"carol"},
	})
	require.True(t, apperrors.IsInvalidInput(err))

	updated, err := env.tasks.AssignMembers(AssignMembersInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID,
		Usernames: []string{"bob", "alice", "bob"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"bob", "alice"}, updated.Assignees)

	// Re-assigning an existing assignee is a no-op.
	updated, err = env.tasks.AssignMembers(AssignMembersInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID, Usernames: []string{"bob"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"bob", "alice"}, updated.Assignees)

	_, err = env.tasks.AssignMembers(AssignMembersInput{
		Actor: "bob", ProjectID: "P1", TaskID: task.TaskID, Usernames: []string{"bob"},
	})
	require.True(t, apperrors.IsPermissionDenied(err))
}

func TestUnassignMember(t *testing.T) {
	env := setupProjectEnv(t)
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)
	_, err = env.tasks.AssignMembers(AssignMembersInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID, Usernames: []string{"bob"},
	})
	require.NoError(t, err)

	updated, err := env.tasks.UnassignMember("alice", "P1", task.TaskID, "bob")
	require.NoError(t, err)
	require.Empty(t, updated.Assignees)

	_, err = env.tasks.UnassignMember("alice", "P1", task.TaskID, "bob")
	require.True(t, apperrors.IsNotFound(err))
}

func TestComments(t *testing.T) {
	env := setupProjectEnv(t)
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)

	// bob is a member but not an assignee, so he cannot comment.
	_, err = env.tasks.AddComment("bob", "P1", task.TaskID, "on it")
	require.True(t, apperrors.IsPermissionDenied(err))

	_, err = env.tasks.AddComment("alice", "P1", task.TaskID, "   ")
	require.True(t, apperrors.IsInvalidInput(err))

	_, err = env.tasks.AssignMembers(AssignMembersInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID, Usernames: []string{"bob"},
	})
	require.NoError(t, err)

	updated, err := env.tasks.AddComment("bob", "P1", task.TaskID, "on it")
	require.NoError(t, err)
	require.Equal(t, []string{"on it"}, updated.Comments)

	updated, err = env.tasks.ClearComments("bob", "P1", task.TaskID)
	require.NoError(t, err)
	require.Empty(t, updated.Comments)
}

func TestRetitleTaskSyncsCachedSummaries(t *testing.T) {
	env := setupProjectEnv(t)
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)

	_, err = env.tasks.RetitleTask("bob", "P1", task.TaskID, "ship it v2")
	require.True(t, apperrors.IsPermissionDenied(err))

	updated, err := env.tasks.RetitleTask("alice", "P1", task.TaskID, "ship it v2")
	require.NoError(t, err)
	require.Equal(t, "ship it v2", updated.TaskTitle)

	project, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	_, _, summary, found := project.Tasks.Find(task.TaskID)
	require.True(t, found)
	require.Equal(t, "ship it v2", summary.TaskTitle)

	alice, err := env.userRepo.Load("alice")
	require.NoError(t, err)
	require.Len(t, alice.Projects["P1"].Tasks, 1)
	require.Equal(t, "ship it v2", alice.Projects["P1"].Tasks[0].TaskTitle)
}

func TestChangeDeadline(t *testing.T) {
	env := setupProjectEnv(t)
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)

	deadline, err := models.ParseTimestamp("2027-01-15 18:00:00")
	require.NoError(t, err)

	updated, err := env.tasks.ChangeDeadline("alice", "P1", task.TaskID, deadline)
	require.NoError(t, err)
	require.Equal(t, deadline, updated.DeadlineDT)

	_, err = env.tasks.ChangeDeadline("bob", "P1", task.TaskID, deadline)
	require.True(t, apperrors.IsPermissionDenied(err))
}

func TestHistoryLedger(t *testing.T) {
	env := setupProjectEnv(t)
	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)
	_, err = env.tasks.MoveTask(MoveTaskInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID,
		Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow,
	})
	require.NoError(t, err)

	lines, err := env.tasks.History("bob", "P1", task.TaskID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "["))
		require.Contains(t, line, "] : ")
	}

	env.signup(t, "carol", "carol@x.com")
	_, err = env.tasks.History("carol", "P1", task.TaskID)
	require.True(t, apperrors.IsPermissionDenied(err))

	err = env.tasks.ClearHistory("bob", "P1", task.TaskID)
	require.True(t, apperrors.IsPermissionDenied(err))

	require.NoError(t, env.tasks.ClearHistory("alice", "P1", task.TaskID))
	lines, err = env.tasks.History("alice", "P1", task.TaskID)
	require.NoError(t, err)
	require.Empty(t, lines)
}

// TestProjectLifecycle walks the full flow: signup, project creation,
// membership, task creation with defaults, a move, and deletion, checking
// the stored documents after each step.
func TestProjectLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.signup(t, "bob", "bob@x.com")

	env.createProject(t, "alice", "P1", "Launch")
	require.NoError(t, env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"}))

	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "bob", ProjectID: "P1", Title: "write docs"})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusBacklog, task.Status)
	require.Equal(t, models.TaskPriorityLow, task.Priority)

	_, err = env.tasks.AssignMembers(AssignMembersInput{
		Actor: "alice", ProjectID: "P1", TaskID: task.TaskID, Usernames: []string{"bob"},
	})
	require.NoError(t, err)

	_, err = env.tasks.MoveTask(MoveTaskInput{
		Actor: "bob", ProjectID: "P1", TaskID: task.TaskID,
		Status: models.TaskStatusDoing, Priority: models.TaskPriorityLow,
	})
	require.NoError(t, err)

	project, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	status, priority, _, found := project.Tasks.Find(task.TaskID)
	require.True(t, found)
	require.Equal(t, models.TaskStatusDoing, status)
	require.Equal(t, models.TaskPriorityLow, priority)

	require.NoError(t, env.tasks.DeleteTask("alice", "P1", task.TaskID))
	project, err = env.projectRepo.Load("P1")
	require.NoError(t, err)
	require.Equal(t, 0, project.Tasks.Count())
}
