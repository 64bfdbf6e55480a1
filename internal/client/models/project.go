package models

import "slices"

// Project is a collaboration opened by a user.
type Project struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// RequiredSkills keeps the server order.
	RequiredSkills []string `json:"requiredSkills"`

	// CreatorID references User.ID; the user may not be loaded yet.
	CreatorID int64 `json:"creatorId"`

	// Members is a set of User.ID values.
	Members []int64 `json:"members"`
}

func (p Project) Clone() Project {
	p.RequiredSkills = slices.Clone(p.RequiredSkills)
	p.Members = slices.Clone(p.Members)
	return p
}

// HasMember reports whether userID is a member of p.
func (p Project) HasMember(userID int64) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// NewProject is the payload for creating a project.
type NewProject struct {
	Title          string
	Description    string
	RequiredSkills []string
}
