package services

import (
	"errors"
	"fmt"

	apperrors "github.com/aminrsv/taskboard/internal/errors"
	"github.com/aminrsv/taskboard/internal/models"
	"github.com/aminrsv/taskboard/internal/repository"
	"github.com/aminrsv/taskboard/internal/utils"
	"github.com/aminrsv/taskboard/pkg/logger"
)

// AuthService handles account creation, authentication, and the lazy
// reconciliation of user views against the project store.
type AuthService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username string
	Password string
	Email    string
}

// Signup validates the input against the credential index, then writes the
// per-user document followed by the index entry. Every duplicate check runs
// before the first write.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	if !utils.IsValidUsername(input.Username) {
		return nil, apperrors.InvalidInput("username may contain only letters, digits and underscores")
	}
	if !utils.IsValidEmail(input.Email) {
		return nil, apperrors.InvalidInput("invalid email address")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	index, err := s.userRepo.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load credential index: %w", err)
	}
	if _, taken := index[input.Username]; taken {
		return nil, apperrors.DuplicateKey("username already exists")
	}
	for _, cred := range index {
		if cred.Email == input.Email {
			return nil, apperrors.DuplicateKey("email already registered")
		}
	}

	user := &models.User{
		Username:         input.Username,
		Email:            input.Email,
		PasswordDigest:   utils.HashPassword(input.Password),
		ActivityStatus:   models.ActivityActive,
		LoginStatus:      models.LoggedIn,
		Projects:         map[string]models.ProjectSummary{},
		AssignedProjects: []string{},
	}

	// User document first: an index entry pointing at a missing document
	// is harder to recover from than the reverse.
	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	index[user.Username] = user.Credential()
	if err := s.userRepo.SaveIndex(index); err != nil {
		return nil, fmt.Errorf("failed to save credential index: %w", err)
	}

	logger.Info().Str("username", user.Username).Msg("user created")
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials against the credential index, refuses
// inactive accounts, marks the user logged in, and runs the lazy
// reconciliation pass over the user's project references.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	index, err := s.userRepo.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load credential index: %w", err)
	}

	cred, ok := index[input.Username]
	if !ok {
		return nil, apperrors.InvalidCredentials("")
	}
	if cred.PasswordDigest != utils.HashPassword(input.Password) {
		return nil, apperrors.InvalidCredentials("")
	}
	if cred.ActivityStatus == models.ActivityInactive {
		return nil, apperrors.AccountInactive("account is inactive, login is not possible")
	}

	user, err := s.RefreshUserView(input.Username)
	if err != nil {
		return nil, err
	}

	user.LoginStatus = models.LoggedIn
	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info().Str("username", user.Username).Msg("user logged in")
	return user, nil
}

// Logout marks the user logged out. The flag is advisory; it is never
// enforced as a session lock.
func (s *AuthService) Logout(username string) error {
	user, err := s.userRepo.Load(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	user.LoginStatus = models.LoggedOut
	if err := s.userRepo.Save(user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// AdminLogin verifies credentials against the admin records written by the
// bootstrap utility.
func (s *AuthService) AdminLogin(input LoginInput) (*models.Credential, error) {
	index, err := s.userRepo.LoadAdminIndex()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// No admin was ever bootstrapped; indistinguishable from bad
			// credentials on purpose.
			return nil, apperrors.InvalidCredentials("")
		}
		return nil, fmt.Errorf("failed to load admin records: %w", err)
	}

	cred, ok := index[input.Username]
	if !ok {
		return nil, apperrors.InvalidCredentials("")
	}
	if cred.PasswordDigest != utils.HashPassword(input.Password) {
		return nil, apperrors.InvalidCredentials("")
	}

	logger.Info().Str("username", cred.Username).Msg("admin logged in")
	return &cred, nil
}

// SetUserActivity flips a user's activity status in both the credential
// index and the per-user document. Inactive users are refused at login.
func (s *AuthService) SetUserActivity(username string, status models.ActivityStatus) error {
	index, err := s.userRepo.LoadIndex()
	if err != nil {
		return fmt.Errorf("failed to load credential index: %w", err)
	}
	cred, ok := index[username]
	if !ok {
		return apperrors.NotFound("user not found")
	}

	cred.ActivityStatus = status
	index[username] = cred
	if err := s.userRepo.SaveIndex(index); err != nil {
		return fmt.Errorf("failed to save credential index: %w", err)
	}

	user, err := s.userRepo.Load(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Index entry without a document; the index is authoritative
			// for authentication, so the flip above already took effect.
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	user.ActivityStatus = status
	if err := s.userRepo.Save(user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info().Str("username", username).Str("status", string(status)).Msg("user activity changed")
	return nil
}

// RefreshUserView drops any project reference on the user document whose
// project no longer exists, then re-saves the document when something was
// dropped. Run at login to paper over the non-atomic delete-project gap.
func (s *AuthService) RefreshUserView(username string) (*models.User, error) {
	user, err := s.userRepo.Load(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	changed := false

	kept := user.AssignedProjects[:0]
	for _, id := range user.AssignedProjects {
		exists, err := s.projectRepo.Exists(id)
		if err != nil {
			return nil, fmt.Errorf("failed to check project %s: %w", id, err)
		}
		if exists {
			kept = append(kept, id)
		} else {
			changed = true
		}
	}
	user.AssignedProjects = kept

	for id := range user.Projects {
		exists, err := s.projectRepo.Exists(id)
		if err != nil {
			return nil, fmt.Errorf("failed to check project %s: %w", id, err)
		}
		if !exists {
			delete(user.Projects, id)
			changed = true
		}
	}

	if changed {
		if err := s.userRepo.Save(user); err != nil {
			return nil, fmt.Errorf("failed to save user: %w", err)
		}
		logger.Debug().Str("username", username).Msg("reconciled dangling project references")
	}
	return user, nil
}
