package repository

import (
	"errors"

	"github.com/aminrsv/taskboard/internal/models"
)

// FileUserRepository is a flat-file implementation of UserRepository.
type FileUserRepository struct {
	layout Layout
}

// NewUserRepository creates a new UserRepository over the given layout.
func NewUserRepository(layout Layout) UserRepository {
	return &FileUserRepository{layout: layout}
}

// Save serializes and overwrites the per-user document.
func (r *FileUserRepository) Save(user *models.User) error {
	return writeDocument(r.layout.UserPath(user.Username), user)
}

// Load reads a user document by username.
func (r *FileUserRepository) Load(username string) (*models.User, error) {
	var user models.User
	if err := readDocument(r.layout.UserPath(username), &user); err != nil {
		return nil, err
	}
	user.Normalize()
	return &user, nil
}

// Delete removes the user document.
func (r *FileUserRepository) Delete(username string) error {
	return deleteDocument(r.layout.UserPath(username))
}

// Exists reports whether the user document is present.
func (r *FileUserRepository) Exists(username string) (bool, error) {
	return documentExists(r.layout.UserPath(username))
}

// LoadIndex reads the credential index. An index that has never been
// written reads as empty.
func (r *FileUserRepository) LoadIndex() (map[string]models.Credential, error) {
	index := map[string]models.Credential{}
	if err := readDocument(r.layout.UsersIndexPath(), &index); err != nil {
		if errors.Is(err, ErrNotFound) {
			return map[string]models.Credential{}, nil
		}
		return nil, err
	}
	return index, nil
}

// SaveIndex overwrites the credential index.
func (r *FileUserRepository) SaveIndex(index map[string]models.Credential) error {
	return writeDocument(r.layout.UsersIndexPath(), index)
}

// LoadAdminIndex reads the admin credential records. ErrNotFound is
// surfaced here: an absent admin file means the bootstrap step never ran.
func (r *FileUserRepository) LoadAdminIndex() (map[string]models.Credential, error) {
	index := map[string]models.Credential{}
	if err := readDocument(r.layout.AdminIndexPath(), &index); err != nil {
		return nil, err
	}
	return index, nil
}

// SaveAdminIndex overwrites the admin credential records.
func (r *FileUserRepository) SaveAdminIndex(index map[string]models.Credential) error {
	return writeDocument(r.layout.AdminIndexPath(), index)
}
