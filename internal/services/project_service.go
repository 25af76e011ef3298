package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/aminrsv/taskboard/internal/errors"
	"github.com/aminrsv/taskboard/internal/models"
	"github.com/aminrsv/taskboard/internal/repository"
	"github.com/aminrsv/taskboard/pkg/logger"
)

// ProjectService implements the multi-document recipes that keep the
// User and Project views mutually consistent. Each recipe is an ordered
// sequence of document reads and writes with no cross-document
// transaction; orderings favor an orphaned-but-derivable record over a
// dangling reference.
type ProjectService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	historyRepo repository.HistoryRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	userRepo repository.UserRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	historyRepo repository.HistoryRepository,
) *ProjectService {
	return &ProjectService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		historyRepo: historyRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Admin       string
	ProjectID   string
	Title       string
	Description string
}

// CreateProject validates the user-supplied id against the registry, then
// writes project document, registry entry, and the admin's cached summary,
// in that order. A crash after the project write leaves an orphan project
// whose ownership is derivable from its admin field.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.ProjectID) == "" {
		return nil, apperrors.InvalidInput("project id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("project title is required")
	}

	available, err := s.projectRepo.IsProjectIDAvailable(input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project id: %w", err)
	}
	if !available {
		return nil, apperrors.DuplicateKey("project id already in use")
	}

	admin, err := s.userRepo.Load(input.Admin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	project := &models.Project{
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		Admin:       input.Admin,
		Members:     []string{},
		Tasks:       models.NewTaxonomy(),
	}

	if err := s.projectRepo.Save(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	if err := s.projectRepo.RegisterProjectID(project.ProjectID); err != nil {
		return nil, fmt.Errorf("failed to register project id: %w", err)
	}

	admin.Projects[project.ProjectID] = project.Summary()
	if err := s.userRepo.Save(admin); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info().Str("projectID", project.ProjectID).Str("admin", project.Admin).Msg("project created")
	return project, nil
}

// GetProject returns a project if the actor is its admin or a member.
func (s *ProjectService) GetProject(actor, projectID string) (*models.Project, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	if !project.HasAccess(actor) {
		return nil, apperrors.PermissionDenied("you are not a member of this project")
	}
	return project, nil
}

// RenameProject changes the project title and re-syncs the admin's cached
// summary. Admin only.
func (s *ProjectService) RenameProject(actor, projectID, title string) (*models.Project, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.InvalidInput("project title is required")
	}

	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}
	if actor != project.Admin {
		return nil, apperrors.PermissionDenied("only the project admin can rename the project")
	}

	project.Title = title
	if err := s.projectRepo.Save(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	if err := syncAdminCache(s.userRepo, project); err != nil {
		return nil, err
	}
	return project, nil
}

// AddMemberInput represents parameters to add a member to a project.
type AddMemberInput struct {
	Actor     string
	ProjectID string
	Username  string
}

// AddMember appends the target to the project's member list, re-syncs the
// admin's cached summary, and records the project on the target's
// assignedProjects. Three independent writes; the recipe is idempotent, so
// re-running it after a partial failure converges.
func (s *ProjectService) AddMember(input AddMemberInput) error {
	project, err := s.loadProject(input.ProjectID)
	if err != nil {
		return err
	}
	if input.Actor != project.Admin {
		return apperrors.PermissionDenied("only the project admin can add members")
	}
	if input.Username == project.Admin {
		return apperrors.InvalidInput("user is the project admin")
	}
	if project.IsMember(input.Username) {
		return apperrors.DuplicateKey("user is already a member of this project")
	}

	target, err := s.userRepo.Load(input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	project.AddMember(input.Username)
	if err := s.projectRepo.Save(project); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if err := syncAdminCache(s.userRepo, project); err != nil {
		return err
	}

	target.AddAssignedProject(project.ProjectID)
	if err := s.userRepo.Save(target); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info().Str("projectID", project.ProjectID).Str("username", input.Username).Msg("member added")
	return nil
}

// RemoveMember is the mirror of AddMember with symmetric ordering. Task
// assignee lists are not touched; a removed member may remain listed as an
// assignee on existing tasks.
func (s *ProjectService) RemoveMember(input AddMemberInput) error {
	project, err := s.loadProject(input.ProjectID)
	if err != nil {
		return err
	}
	if input.Actor != project.Admin {
		return apperrors.PermissionDenied("only the project admin can remove members")
	}
	if !project.IsMember(input.Username) {
		return apperrors.NotFound("user is not a member of this project")
	}

	project.RemoveMember(input.Username)
	if err := s.projectRepo.Save(project); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if err := syncAdminCache(s.userRepo, project); err != nil {
		return err
	}

	target, err := s.userRepo.Load(input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Member document already gone; the project side is clean.
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	target.RemoveAssignedProject(project.ProjectID)
	if err := s.userRepo.Save(target); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info().Str("projectID", project.ProjectID).Str("username", input.Username).Msg("member removed")
	return nil
}

// DeleteProject removes the project document, every task document and
// history ledger it indexes, the admin's cached entry, and each member's
// assignedProjects entry. Admin only. Tasks go first so that a crash
// mid-cascade leaves the project document as the map of what remains.
func (s *ProjectService) DeleteProject(actor, projectID string) error {
	project, err := s.loadProject(projectID)
	if err != nil {
		return err
	}
	if actor != project.Admin {
		return apperrors.PermissionDenied("only the project admin can delete the project")
	}

	for _, summary := range project.Tasks.Summaries() {
		if err := s.taskRepo.Delete(summary.TaskID); err != nil {
			return fmt.Errorf("failed to delete task %s: %w", summary.TaskID, err)
		}
		if err := s.historyRepo.Delete(summary.TaskID); err != nil {
			return fmt.Errorf("failed to delete history for %s: %w", summary.TaskID, err)
		}
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	admin, err := s.userRepo.Load(project.Admin)
	if err == nil {
		delete(admin.Projects, projectID)
		if err := s.userRepo.Save(admin); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to load user: %w", err)
	}

	for _, member := range project.Members {
		user, err := s.userRepo.Load(member)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		user.RemoveAssignedProject(projectID)
		if err := s.userRepo.Save(user); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
	}

	logger.Info().Str("projectID", projectID).Msg("project deleted")
	return nil
}

// loadProject translates a missing document into a NOT_FOUND outcome.
func (s *ProjectService) loadProject(projectID string) (*models.Project, error) {
	project, err := s.projectRepo.Load(projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

// syncAdminCache rewrites the admin's cached project summary from the
// authoritative project document. Single source of truth per fact: call
// sites never update the cache by hand. Shared with TaskService, whose
// recipes change taxonomy placement.
func syncAdminCache(userRepo repository.UserRepository, project *models.Project) error {
	admin, err := userRepo.Load(project.Admin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("project admin not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	admin.Projects[project.ProjectID] = project.Summary()
	if err := userRepo.Save(admin); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
