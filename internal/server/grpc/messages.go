package grpc

import (
	"time"

	"github.com/dmitrijs2005/trophy/internal/server/models"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Branch   string `json:"branch,omitempty"`
	Year     int    `json:"year,omitempty"`
	Skills   string `json:"skills,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	User        UserMessage `json:"user"`
}

type MeRequest struct{}

type GetUserRequest struct {
	ID int64 `json:"id"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Branch *string `json:"branch,omitempty"`
	Year   *int    `json:"year,omitempty"`
	Skills *string `json:"skills,omitempty"`
}

type UserResponse struct {
	User UserMessage `json:"user"`
}

type ProfileResponse struct {
	User     UserMessage      `json:"user"`
	Badges   []BadgeMessage   `json:"badges"`
	Projects []ProjectMessage `json:"projects"`
}

type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TechStack   string `json:"tech_stack,omitempty"`
	GithubLink  string `json:"github_link,omitempty"`
	DemoLink    string `json:"demo_link,omitempty"`
	ImageURLs   string `json:"image_urls,omitempty"`
}

type CreateProjectResponse struct {
	Project ProjectMessage `json:"project"`
	// Badge is set only when this project earned one.
	Badge *BadgeMessage `json:"badge,omitempty"`
}

type GetProjectRequest struct {
	ID int64 `json:"id"`
}

type ProjectResponse struct {
	Project ProjectMessage `json:"project"`
}

type ListProjectsRequest struct {
	Sort string `json:"sort,omitempty"`
}

type ListProjectsResponse struct {
	Projects []ProjectMessage `json:"projects"`
}

type UpdateProjectRequest struct {
	ID          int64   `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	TechStack   *string `json:"tech_stack,omitempty"`
	GithubLink  *string `json:"github_link,omitempty"`
	DemoLink    *string `json:"demo_link,omitempty"`
	ImageURLs   *string `json:"image_urls,omitempty"`
}

type DeleteProjectRequest struct {
	ID int64 `json:"id"`
}

type DeleteProjectResponse struct{}

type ToggleStarRequest struct {
	ProjectID int64 `json:"project_id"`
}

type ToggleStarResponse struct {
	Starred   bool  `json:"starred"`
	StarCount int64 `json:"star_count"`
}

type ProjectMediaUploadURLRequest struct {
	ProjectID int64 `json:"project_id"`
}

type ProjectMediaUploadURLResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type BroadcastRequest struct {
	Message     string   `json:"message"`
	Channels    []string `json:"channels,omitempty"`
	TargetGroup string   `json:"target_group,omitempty"`
}

type BroadcastResponse struct {
	Notification NotificationMessage `json:"notification"`
}

type DashboardRequest struct {
	Limit int `json:"limit,omitempty"`
}

type DashboardResponse struct {
	Notifications []NotificationMessage `json:"notifications"`
}

// UserMessage is the public form of a user. Email is only filled in for the
// user's own account.
type UserMessage struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Branch    string    `json:"branch"`
	Year      int       `json:"year"`
	Skills    string    `json:"skills"`
	CreatedAt time.Time `json:"created_at"`
}

type OwnerMessage struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Year   int    `json:"year"`
}

type ProjectMessage struct {
	ID          int64         `json:"id"`
	OwnerID     int64         `json:"owner_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	TechStack   string        `json:"tech_stack"`
	GithubLink  string        `json:"github_link"`
	DemoLink    string        `json:"demo_link"`
	ImageURLs   string        `json:"image_urls"`
	StarCount   int64         `json:"star_count"`
	Owner       *OwnerMessage `json:"owner,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type BadgeMessage struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationMessage struct {
	ID          int64     `json:"id"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	TargetGroup string    `json:"target_group"`
	CreatedAt   time.Time `json:"created_at"`
}

func userMessage(u *models.User, withEmail bool) UserMessage {
	m := UserMessage{
		ID:        u.ID,
		Name:      u.Name,
		Role:      string(u.Role),
		Branch:    u.Branch,
		Year:      u.Year,
		Skills:    u.Skills,
		CreatedAt: u.CreatedAt,
	}
	if withEmail {
		m.Email = u.Email
	}
	return m
}

func projectMessage(p *models.Project) ProjectMessage {
	return ProjectMessage{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		TechStack:   p.TechStack,
		GithubLink:  p.GithubLink,
		DemoLink:    p.DemoLink,
		ImageURLs:   p.ImageURLs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func projectViewMessage(v *models.ProjectView) ProjectMessage {
	m := projectMessage(&v.Project)
	m.StarCount = v.StarCount
	m.Owner = &OwnerMessage{ID: v.Owner.ID, Name: v.Owner.Name, Branch: v.Owner.Branch, Year: v.Owner.Year}
	return m
}

func projectViewMessages(list []models.ProjectView) []ProjectMessage {
	out := make([]ProjectMessage, 0, len(list))
	for i := range list {
		out = append(out, projectViewMessage(&list[i]))
	}
	return out
}

func badgeMessage(b *models.Badge) BadgeMessage {
	return BadgeMessage{ID: b.ID, Name: b.Name, Description: b.Description, CreatedAt: b.CreatedAt}
}

func notificationMessage(n *models.Notification) NotificationMessage {
	return NotificationMessage{ID: n.ID, Message: n.Message, Type: n.Type, TargetGroup: n.TargetGroup, CreatedAt: n.CreatedAt}
}

func profileResponse(p *models.Profile, withEmail bool) *ProfileResponse {
	resp := &ProfileResponse{
		User:     userMessage(&p.User, withEmail),
		Badges:   make([]BadgeMessage, 0, len(p.Badges)),
		Projects: projectViewMessages(p.Projects),
	}
	for i := range p.Badges {
		resp.Badges = append(resp.Badges, badgeMessage(&p.Badges[i]))
	}
	return resp
}
