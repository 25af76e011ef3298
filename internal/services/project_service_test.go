package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/aminrsv/taskboard/internal/errors"
	"github.com/aminrsv/taskboard/internal/models"
	"github.com/aminrsv/taskboard/internal/repository"
)

func (e testEnv) createProject(t *testing.T, admin, projectID, title string) *models.Project {
	t.Helper()

	project, err := e.projects.CreateProject(CreateProjectInput{
		Admin:     admin,
		ProjectID: projectID,
		Title:     title,
	})
	require.NoError(t, err)
	return project
}

func TestCreateProject(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")

	project := env.createProject(t, "alice", "P1", "Launch")
	require.Equal(t, "alice", project.Admin)
	require.Empty(t, project.Members)
	require.Equal(t, 0, project.Tasks.Count())
	require.Len(t, project.Tasks, len(models.AllStatuses))

	// Document, registry, and the admin's cached summary all landed.
	loaded, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	require.Equal(t, "Launch", loaded.Title)

	ids, err := env.projectRepo.IssuedProjectIDs()
	require.NoError(t, err)
	require.Contains(t, ids, "P1")

	alice, err := env.userRepo.Load("alice")
	require.NoError(t, err)
	require.Equal(t, "Launch", alice.Projects["P1"].Title)
	require.Equal(t, "alice", alice.Projects["P1"].Admin)
}

func TestCreateProjectRefusesDuplicateID(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.signup(t, "bob", "bob@x.com")
	env.createProject(t, "alice", "P1", "Launch")

	_, err := env.projects.CreateProject(CreateProjectInput{Admin: "bob", ProjectID: "P1", Title: "Other"})
	require.True(t, apperrors.IsDuplicateKey(err))

	// The rejection happened before any write: bob has no cached entry and
	// the stored project is untouched.
	bob, err := env.userRepo.Load("bob")
	require.NoError(t, err)
	require.Empty(t, bob.Projects)

	loaded, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	require.Equal(t, "Launch", loaded.Title)
	require.Equal(t, "alice", loaded.Admin)
}

func TestCreateProjectDeletedIDNeverReissued(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.createProject(t, "alice", "P1", "Launch")

	require.NoError(t, env.projects.DeleteProject("alice", "P1"))

	_, err := env.projects.CreateProject(CreateProjectInput{Admin: "alice", ProjectID: "P1", Title: "Again"})
	require.True(t, apperrors.IsDuplicateKey(err))
}

func TestGetProjectAccess(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.signup(t, "bob", "bob@x.com")
	env.signup(t, "carol", "carol@x.com")
	env.createProject(t, "alice", "P1", "Launch")
	require.NoError(t, env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"}))

	_, err := env.projects.GetProject("alice", "P1")
	require.NoError(t, err)

	_, err = env.projects.GetProject("bob", "P1")
	require.NoError(t, err)

	_, err = env.projects.GetProject("carol", "P1")
	require.True(t, apperrors.IsPermissionDenied(err))

	_, err = env.projects.GetProject("alice", "nope")
	require.True(t, apperrors.IsNotFound(err))
}

func TestAddMember(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.signup(t, "bob", "bob@x.com")
	env.createProject(t, "alice", "P1", "Launch")

	require.NoError(t, env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"}))

	// Membership is recorded on both sides.
	project, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	require.True(t, project.IsMember("bob"))

	bob, err := env.userRepo.Load("bob")
	require.NoError(t, err)
	require.True(t, bob.IsAssignedTo("P1"))

	alice, err := env.userRepo.Load("alice")
	require.NoError(t, err)
	require.Contains(t, alice.Projects["P1"].Members, "bob")
}

func TestAddMemberRejections(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.signup(t, "bob", "bob@x.com")
	env.createProject(t, "alice", "P1", "Launch")
	require.NoError(t, env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"}))

	err := env.projects.AddMember(AddMemberInput{Actor: "bob", ProjectID: "P1", Username: "bob"})
	require.True(t, apperrors.IsPermissionDenied(err))

	err = env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "alice"})
	require.True(t, apperrors.IsInvalidInput(err))

	err = env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"})
	require.True(t, apperrors.IsDuplicateKey(err))

	err = env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "ghost"})
	require.True(t, apperrors.IsNotFound(err))
}

func TestRemoveMember(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.signup(t, "bob", "bob@x.com")
	env.createProject(t, "alice", "P1", "Launch")
	require.NoError(t, env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"}))

	require.NoError(t, env.projects.RemoveMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"}))

	project, err := env.projectRepo.Load("P1")
	require.NoError(t, err)
	require.False(t, project.IsMember("bob"))

	bob, err := env.userRepo.Load("bob")
	require.NoError(t, err)
	require.False(t, bob.IsAssignedTo("P1"))

	err = env.projects.RemoveMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"})
	require.True(t, apperrors.IsNotFound(err))
}

func TestRenameProject(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.signup(t, "bob", "bob@x.com")
	env.createProject(t, "alice", "P1", "Launch")
	require.NoError(t, env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"}))

	_, err := env.projects.RenameProject("bob", "P1", "Relaunch")
	require.True(t, apperrors.IsPermissionDenied(err))

	project, err := env.projects.RenameProject("alice", "P1", "Relaunch")
	require.NoError(t, err)
	require.Equal(t, "Relaunch", project.Title)

	alice, err := env.userRepo.Load("alice")
	require.NoError(t, err)
	require.Equal(t, "Relaunch", alice.Projects["P1"].Title)
}

func TestDeleteProjectCascades(t *testing.T) {
	env := setupTestEnv(t)
	env.signup(t, "alice", "alice@x.com")
	env.signup(t, "bob", "bob@x.com")
	env.createProject(t, "alice", "P1", "Launch")
	require.NoError(t, env.projects.AddMember(AddMemberInput{Actor: "alice", ProjectID: "P1", Username: "bob"}))

	task, err := env.tasks.CreateTask(CreateTaskInput{Actor: "alice", ProjectID: "P1", Title: "ship it"})
	require.NoError(t, err)

	err = env.projects.DeleteProject("bob", "P1")
	require.True(t, apperrors.IsPermissionDenied(err))

	require.NoError(t, env.projects.DeleteProject("alice", "P1"))

	_, err = env.projectRepo.Load("P1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.taskRepo.Load(task.TaskID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := env.historyRepo.Exists(task.TaskID)
	require.NoError(t, err)
	require.False(t, exists)

	alice, err := env.userRepo.Load("alice")
	require.NoError(t, err)
	require.Empty(t, alice.Projects)

	bob, err := env.userRepo.Load("bob")
	require.NoError(t, err)
	require.False(t, bob.IsAssignedTo("P1"))
}
