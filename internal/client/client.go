// Package client is a Go client for trophy.TrophyService. It keeps the
// session token from Login and attaches it to every later call.
package client

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/netx"
	gs "github.com/dmitrijs2005/trophy/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

type Client struct {
	conn *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := c.Token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// New connects lazily to target. Extra options are appended to the defaults
// (plaintext transport, JSON codec, token interceptor).
func New(target string, opts ...grpc.DialOption) (*Client, error) {
	c := &Client{}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(gs.CodecName)),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Token returns the current session token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetToken replaces the session token, e.g. with one saved from an earlier
// Login.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	return mapError(c.conn.Invoke(ctx, gs.FullMethod(method), req, resp))
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	var resp gs.PingResponse
	if err := c.invoke(ctx, "Ping", &gs.PingRequest{}, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) Register(ctx context.Context, req *gs.RegisterRequest) (*gs.UserMessage, error) {
	var resp gs.UserResponse
	if err := c.invoke(ctx, "Register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*gs.LoginResponse, error) {
	var resp gs.LoginResponse
	if err := c.invoke(ctx, "Login", &gs.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.AccessToken)
	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*gs.ProfileResponse, error) {
	var resp gs.ProfileResponse
	if err := c.invoke(ctx, "Me", &gs.MeRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*gs.ProfileResponse, error) {
	var resp gs.ProfileResponse
	if err := c.invoke(ctx, "GetUser", &gs.GetUserRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req *gs.UpdateProfileRequest) (*gs.UserMessage, error) {
	var resp gs.UserResponse
	if err := c.invoke(ctx, "UpdateProfile", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) CreateProject(ctx context.Context, req *gs.CreateProjectRequest) (*gs.CreateProjectResponse, error) {
	var resp gs.CreateProjectResponse
	if err := c.invoke(ctx, "CreateProject", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetProject(ctx context.Context, id int64) (*gs.ProjectMessage, error) {
	var resp gs.ProjectResponse
	if err := c.invoke(ctx, "GetProject", &gs.GetProjectRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Project, nil
}

func (c *Client) ListProjects(ctx context.Context, sort string) ([]gs.ProjectMessage, error) {
	var resp gs.ListProjectsResponse
	if err := c.invoke(ctx, "ListProjects", &gs.ListProjectsRequest{Sort: sort}, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (c *Client) UpdateProject(ctx context.Context, req *gs.UpdateProjectRequest) (*gs.ProjectMessage, error) {
	var resp gs.ProjectResponse
	if err := c.invoke(ctx, "UpdateProject", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Project, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.invoke(ctx, "DeleteProject", &gs.DeleteProjectRequest{ID: id}, &gs.DeleteProjectResponse{})
}

func (c *Client) ToggleStar(ctx context.Context, projectID int64) (*gs.ToggleStarResponse, error) {
	var resp gs.ToggleStarResponse
	if err := c.invoke(ctx, "ToggleStar", &gs.ToggleStarRequest{ProjectID: projectID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ProjectMediaUploadURL(ctx context.Context, projectID int64) (*gs.ProjectMediaUploadURLResponse, error) {
	var resp gs.ProjectMediaUploadURLResponse
	if err := c.invoke(ctx, "ProjectMediaUploadURL", &gs.ProjectMediaUploadURLRequest{ProjectID: projectID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadProjectImage asks the server for a presigned URL and PUTs body to
// it. It returns the object key the image was stored under.
func (c *Client) UploadProjectImage(ctx context.Context, projectID int64, contentType string, body io.Reader) (string, error) {
	u, err := c.ProjectMediaUploadURL(ctx, projectID)
	if err != nil {
		return "", err
	}
	if err := netx.UploadToPresignedURL(ctx, u.URL, contentType, body); err != nil {
		return "", err
	}
	return u.Key, nil
}

func (c *Client) Broadcast(ctx context.Context, req *gs.BroadcastRequest) (*gs.NotificationMessage, error) {
	var resp gs.BroadcastResponse
	if err := c.invoke(ctx, "Broadcast", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Notification, nil
}

func (c *Client) Dashboard(ctx context.Context, limit int) ([]gs.NotificationMessage, error) {
	var resp gs.DashboardResponse
	if err := c.invoke(ctx, "Dashboard", &gs.DashboardRequest{Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}
