package models

type ActivityStatus string

const (
	ActivityActive   ActivityStatus = "active"
	ActivityInactive ActivityStatus = "inactive"
)

type LoginStatus string

const (
	LoggedIn  LoginStatus = "logged-in"
	LoggedOut LoginStatus = "logged-out"
)

// User is the full per-user document, persisted as users/<username>.json.
// Projects and AssignedProjects are denormalized caches of facts whose
// authoritative copy lives in the project documents; every mutating recipe
// keeps them in step.
type User struct {
	Username         string                    `json:"username"`
	Email            string                    `json:"email"`
	PasswordDigest   string                    `json:"passwordDigest"`
	ActivityStatus   ActivityStatus            `json:"activityStatus"`
	LoginStatus      LoginStatus               `json:"loginStatus"`
	Projects         map[string]ProjectSummary `json:"projects"`
	AssignedProjects []string                  `json:"assignedProjects"`
}

// ProjectSummary is the lightweight project view cached on the admin's
// user document.
type ProjectSummary struct {
	Title   string        `json:"title"`
	Admin   string        `json:"admin"`
	Members []string      `json:"members"`
	Tasks   []TaskSummary `json:"tasks"`
}

// Credential is one entry of the credential index (users.json) and of the
// admin record file (admin.json). It duplicates the auth fields of the
// per-user document and must be rewritten whenever those fields change.
type Credential struct {
	Username       string         `json:"username"`
	PasswordDigest string         `json:"passwordDigest"`
	Email          string         `json:"email"`
	ActivityStatus ActivityStatus `json:"activityStatus"`
}

// Normalize ensures decoded maps and slices are non-nil so call sites can
// mutate them without guards.
func (u *User) Normalize() {
	if u.Projects == nil {
		u.Projects = map[string]ProjectSummary{}
	}
	if u.AssignedProjects == nil {
		u.AssignedProjects = []string{}
	}
}

// IsAssignedTo reports whether projectID is in the user's assigned set.
func (u *User) IsAssignedTo(projectID string) bool {
	for _, id := range u.AssignedProjects {
		if id == projectID {
			return true
		}
	}
	return false
}

// AddAssignedProject appends projectID if not already present.
func (u *User) AddAssignedProject(projectID string) {
	if !u.IsAssignedTo(projectID) {
		u.AssignedProjects = append(u.AssignedProjects, projectID)
	}
}

// RemoveAssignedProject drops projectID from the assigned set.
func (u *User) RemoveAssignedProject(projectID string) {
	for i, id := range u.AssignedProjects {
		if id == projectID {
			u.AssignedProjects = append(u.AssignedProjects[:i:i], u.AssignedProjects[i+1:]...)
			return
		}
	}
}

// Credential returns the auth-relevant slice of the user document, as it
// appears in the credential index.
func (u *User) Credential() Credential {
	return Credential{
		Username:       u.Username,
		PasswordDigest: u.PasswordDigest,
		Email:          u.Email,
		ActivityStatus: u.ActivityStatus,
	}
}
