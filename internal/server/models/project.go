package models

import "time"

// Project is a published showcase entry. TechStack and ImageURLs are stored
// as the client sends them (typically JSON-encoded lists).
type Project struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	TechStack   string
	GithubLink  string
	DemoLink    string
	ImageURLs   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectView is a project as read by clients: with its star count and a
// summary of its owner.
type ProjectView struct {
	Project
	StarCount int64
	Owner     OwnerSummary
}

// ProjectInput carries the fields of a new project.
type ProjectInput struct {
	Title       string
	Description string
	TechStack   string
	GithubLink  string
	DemoLink    string
	ImageURLs   string
}

// ProjectPatch is a partial project update. Nil fields are left unchanged.
type ProjectPatch struct {
	Title       *string
	Description *string
	TechStack   *string
	GithubLink  *string
	DemoLink    *string
	ImageURLs   *string
}

// Apply copies the set fields of p onto pr.
func (p ProjectPatch) Apply(pr *Project) {
	if p.Title != nil {
		pr.Title = *p.Title
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.TechStack != nil {
		pr.TechStack = *p.TechStack
	}
	if p.GithubLink != nil {
		pr.GithubLink = *p.GithubLink
	}
	if p.DemoLink != nil {
		pr.DemoLink = *p.DemoLink
	}
	if p.ImageURLs != nil {
		pr.ImageURLs = *p.ImageURLs
	}
}

// ProjectSort selects the ordering of project listings.
type ProjectSort string

const (
	SortNewest      ProjectSort = "newest"
	SortMostStarred ProjectSort = "most_starred"
)

// MediaUpload is a presigned location the owner can PUT an image to.
type MediaUpload struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}
