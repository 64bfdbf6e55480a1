package models

import "slices"

// User is a member of the exchange. Owned by the server; the client only
// holds a read-mostly copy.
type User struct {
	// ID is the stable, unique server identifier.
	ID int64 `json:"id"`

	Name  string `json:"name"`
	Email string `json:"email"`

	// Skills is a set; order is the server's, duplicates are dropped.
	Skills []string `json:"skills"`
	Bio    string   `json:"bio"`

	// Available reports whether the user currently accepts swap proposals.
	Available bool `json:"available"`
}

// Clone returns a copy of u that shares no memory with it.
func (u User) Clone() User {
	u.Skills = slices.Clone(u.Skills)
	return u
}

// HasSkill reports whether skill is one of u's skills.
func (u User) HasSkill(skill string) bool {
	for _, s := range u.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Registration carries the fields needed to create an account.
type Registration struct {
	Name     string
	Email    string
	Password string
	Skills   []string
	Bio      string
}
