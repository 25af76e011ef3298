package models

// Project is the authoritative project document, persisted as
// projects/<projectID>.json. Members excludes the admin.
type Project struct {
	ProjectID   string   `json:"projectID"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Admin       string   `json:"admin"`
	Members     []string `json:"members"`
	Tasks       Taxonomy `json:"tasks"`
}

// Normalize ensures decoded slices and the taxonomy matrix are complete.
func (p *Project) Normalize() {
	if p.Members == nil {
		p.Members = []string{}
	}
	if p.Tasks == nil {
		p.Tasks = NewTaxonomy()
	} else {
		p.Tasks.Normalize()
	}
}

// IsMember reports whether username is in the member list (admin excluded).
func (p *Project) IsMember(username string) bool {
	for _, m := range p.Members {
		if m == username {
			return true
		}
	}
	return false
}

// HasAccess reports whether username is the admin or a member.
func (p *Project) HasAccess(username string) bool {
	return username == p.Admin || p.IsMember(username)
}

// AddMember appends username to the member list if not already present.
func (p *Project) AddMember(username string) {
	if !p.IsMember(username) {
		p.Members = append(p.Members, username)
	}
}

// RemoveMember drops username from the member list.
func (p *Project) RemoveMember(username string) {
	for i, m := range p.Members {
		if m == username {
			p.Members = append(p.Members[:i:i], p.Members[i+1:]...)
			return
		}
	}
}

// Summary returns the lightweight view cached on the admin's user document.
func (p *Project) Summary() ProjectSummary {
	members := make([]string, len(p.Members))
	copy(members, p.Members)
	return ProjectSummary{
		Title:   p.Title,
		Admin:   p.Admin,
		Members: members,
		Tasks:   p.Tasks.Summaries(),
	}
}
