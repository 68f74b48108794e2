package grpc

import (
	"context"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/dmitrijs2005/trophy/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	u, err := s.auth.Register(ctx, services.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Branch:   req.Branch,
		Year:     req.Year,
		Skills:   req.Skills,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &UserResponse{User: userMessage(u, true)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, u, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.auth.TokenTTL().Seconds()),
		User:        userMessage(u, true),
	}, nil
}

func (s *GRPCServer) Me(ctx context.Context, req *MeRequest) (*ProfileResponse, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.auth.Profile(ctx, actor.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return profileResponse(p, true), nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *GetUserRequest) (*ProfileResponse, error) {
	p, err := s.auth.Profile(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return profileResponse(p, false), nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*UserResponse, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.auth.UpdateProfile(ctx, actor, models.UserPatch{
		Name:   req.Name,
		Branch: req.Branch,
		Year:   req.Year,
		Skills: req.Skills,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &UserResponse{User: userMessage(u, true)}, nil
}

func (s *GRPCServer) CreateProject(ctx context.Context, req *CreateProjectRequest) (*CreateProjectResponse, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	p, badge, err := s.projects.Create(ctx, actor, models.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		GithubLink:  req.GithubLink,
		DemoLink:    req.DemoLink,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &CreateProjectResponse{Project: projectMessage(p)}
	if badge != nil {
		b := badgeMessage(badge)
		resp.Badge = &b
	}
	return resp, nil
}

func (s *GRPCServer) GetProject(ctx context.Context, req *GetProjectRequest) (*ProjectResponse, error) {
	v, err := s.projects.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ProjectResponse{Project: projectViewMessage(v)}, nil
}

func (s *GRPCServer) ListProjects(ctx context.Context, req *ListProjectsRequest) (*ListProjectsResponse, error) {
	list, err := s.projects.List(ctx, models.ProjectSort(req.Sort))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ListProjectsResponse{Projects: projectViewMessages(list)}, nil
}

func (s *GRPCServer) UpdateProject(ctx context.Context, req *UpdateProjectRequest) (*ProjectResponse, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.projects.Update(ctx, actor, req.ID, models.ProjectPatch{
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		GithubLink:  req.GithubLink,
		DemoLink:    req.DemoLink,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ProjectResponse{Project: projectMessage(p)}, nil
}

func (s *GRPCServer) DeleteProject(ctx context.Context, req *DeleteProjectRequest) (*DeleteProjectResponse, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Delete(ctx, actor, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &DeleteProjectResponse{}, nil
}

func (s *GRPCServer) ToggleStar(ctx context.Context, req *ToggleStarRequest) (*ToggleStarResponse, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	starred, err := s.ledger.ToggleStar(ctx, actor, req.ProjectID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	count, err := s.ledger.StarCount(ctx, req.ProjectID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ToggleStarResponse{Starred: starred, StarCount: count}, nil
}

func (s *GRPCServer) ProjectMediaUploadURL(ctx context.Context, req *ProjectMediaUploadURLRequest) (*ProjectMediaUploadURLResponse, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	up, err := s.projects.MediaUploadURL(ctx, actor, req.ProjectID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ProjectMediaUploadURLResponse{Key: up.Key, URL: up.URL, ExpiresAt: up.ExpiresAt}, nil
}

func (s *GRPCServer) Broadcast(ctx context.Context, req *BroadcastRequest) (*BroadcastResponse, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.notifications.Broadcast(ctx, actor, models.BroadcastRequest{
		Message:     req.Message,
		Channels:    req.Channels,
		TargetGroup: req.TargetGroup,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &BroadcastResponse{Notification: notificationMessage(n)}, nil
}

func (s *GRPCServer) Dashboard(ctx context.Context, req *DashboardRequest) (*DashboardResponse, error) {
	list, err := s.notifications.Recent(ctx, req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	resp := &DashboardResponse{Notifications: make([]NotificationMessage, 0, len(list))}
	for i := range list {
		resp.Notifications = append(resp.Notifications, notificationMessage(&list[i]))
	}
	return resp, nil
}

// actor returns the identity the interceptor stored for this call.
func (s *GRPCServer) actor(ctx context.Context) (*models.User, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return nil, s.toStatus(ctx, common.ErrIdentityNotFound)
	}
	return u, nil
}
