// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is the authorization level of an identity.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// User is a registered identity. PasswordHash must never leave the server.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Branch       string
	Year         int
	Skills       string
	CreatedAt    time.Time
}

// IsAdmin reports whether u may use administrative operations.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserPatch is a partial profile update. Nil fields are left unchanged.
// Email, password and role are not patchable here.
type UserPatch struct {
	Name   *string
	Branch *string
	Year   *int
	Skills *string
}

// Apply copies the set fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Branch != nil {
		u.Branch = *p.Branch
	}
	if p.Year != nil {
		u.Year = *p.Year
	}
	if p.Skills != nil {
		u.Skills = *p.Skills
	}
}

// Empty reports whether p changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Branch == nil && p.Year == nil && p.Skills == nil
}

// OwnerSummary is the public slice of a User embedded in project views.
type OwnerSummary struct {
	ID     int64
	Name   string
	Branch string
	Year   int
}

// Profile is a user together with the badges they earned and the projects
// they published.
type Profile struct {
	User     User
	Badges   []Badge
	Projects []ProjectView
}
