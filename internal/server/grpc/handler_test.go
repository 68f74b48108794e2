package grpc

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func requireCode(t *testing.T, want codes.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, status.Code(err), err.Error())
}

func TestHandler_Ping(t *testing.T) {
	h := newHarness(t)

	var resp PingResponse
	require.NoError(t, h.call("", "Ping", &PingRequest{}, &resp))
	assert.Equal(t, "OK", resp.Status)
}

func TestHandler_RegisterLoginMe(t *testing.T) {
	h := newHarness(t)
	token, user := h.signup(t, "ann@example.com")
	require.NotEmpty(t, token)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "standard", user.Role)

	var me ProfileResponse
	require.NoError(t, h.call(token, "Me", &MeRequest{}, &me))
	assert.Equal(t, user.ID, me.User.ID)
	assert.Equal(t, "ann@example.com", me.User.Email)
	assert.Empty(t, me.Badges)
	assert.Empty(t, me.Projects)

	var public ProfileResponse
	require.NoError(t, h.call("", "GetUser", &GetUserRequest{ID: user.ID}, &public))
	assert.Equal(t, user.Name, public.User.Name)
	assert.Empty(t, public.User.Email)

	raw, err := json.Marshal(me)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestHandler_RegisterErrors(t *testing.T) {
	h := newHarness(t)
	h.signup(t, "dup@example.com")

	err := h.call("", "Register", &RegisterRequest{Email: "dup@example.com", Password: "x", Name: "x"}, &UserResponse{})
	requireCode(t, codes.AlreadyExists, err)

	err = h.call("", "Register", &RegisterRequest{Email: "nope", Password: "x", Name: "x"}, &UserResponse{})
	requireCode(t, codes.InvalidArgument, err)
}

func TestHandler_LoginFailures(t *testing.T) {
	h := newHarness(t)
	h.signup(t, "bo@example.com")

	wrong := h.call("", "Login", &LoginRequest{Email: "bo@example.com", Password: "bad"}, &LoginResponse{})
	unknown := h.call("", "Login", &LoginRequest{Email: "nobody@example.com", Password: "bad"}, &LoginResponse{})

	requireCode(t, codes.Unauthenticated, wrong)
	requireCode(t, codes.Unauthenticated, unknown)
	assert.Equal(t, status.Convert(wrong).Message(), status.Convert(unknown).Message())
}

func TestHandler_ProtectedMethodsNeedToken(t *testing.T) {
	h := newHarness(t)

	for _, method := range []string{"Me", "UpdateProfile", "CreateProject", "UpdateProject", "DeleteProject", "ToggleStar", "ProjectMediaUploadURL", "Broadcast"} {
		t.Run(method, func(t *testing.T) {
			err := h.call("", method, &struct{}{}, &struct{}{})
			requireCode(t, codes.Unauthenticated, err)

			err = h.call("garbage", method, &struct{}{}, &struct{}{})
			requireCode(t, codes.Unauthenticated, err)
		})
	}
}

func TestHandler_UpdateProfile(t *testing.T) {
	h := newHarness(t)
	token, _ := h.signup(t, "cy@example.com")

	branch := "ECE"
	var resp UserResponse
	require.NoError(t, h.call(token, "UpdateProfile", &UpdateProfileRequest{Branch: &branch}, &resp))
	assert.Equal(t, "ECE", resp.User.Branch)

	empty := ""
	err := h.call(token, "UpdateProfile", &UpdateProfileRequest{Name: &empty}, &UserResponse{})
	requireCode(t, codes.InvalidArgument, err)
}

func TestHandler_ProjectLifecycle(t *testing.T) {
	h := newHarness(t)
	owner, ownerUser := h.signup(t, "owner@example.com")
	other, _ := h.signup(t, "other@example.com")

	var created CreateProjectResponse
	require.NoError(t, h.call(owner, "CreateProject", &CreateProjectRequest{Title: "alpha", TechStack: `["go"]`}, &created))
	require.NotNil(t, created.Badge)
	assert.Equal(t, common.FirstProjectBadge, created.Badge.Name)
	assert.Equal(t, ownerUser.ID, created.Project.OwnerID)

	var second CreateProjectResponse
	require.NoError(t, h.call(owner, "CreateProject", &CreateProjectRequest{Title: "beta"}, &second))
	assert.Nil(t, second.Badge)

	var got ProjectResponse
	require.NoError(t, h.call("", "GetProject", &GetProjectRequest{ID: created.Project.ID}, &got))
	assert.Equal(t, "alpha", got.Project.Title)
	require.NotNil(t, got.Project.Owner)
	assert.Equal(t, ownerUser.Name, got.Project.Owner.Name)

	title := "hijacked"
	err := h.call(other, "UpdateProject", &UpdateProjectRequest{ID: created.Project.ID, Title: &title}, &ProjectResponse{})
	requireCode(t, codes.PermissionDenied, err)

	title = "alpha 2"
	var updated ProjectResponse
	require.NoError(t, h.call(owner, "UpdateProject", &UpdateProjectRequest{ID: created.Project.ID, Title: &title}, &updated))
	assert.Equal(t, "alpha 2", updated.Project.Title)

	var list ListProjectsResponse
	require.NoError(t, h.call("", "ListProjects", &ListProjectsRequest{Sort: "newest"}, &list))
	assert.Len(t, list.Projects, 2)

	err = h.call(other, "DeleteProject", &DeleteProjectRequest{ID: created.Project.ID}, &DeleteProjectResponse{})
	requireCode(t, codes.PermissionDenied, err)
	require.NoError(t, h.call(owner, "DeleteProject", &DeleteProjectRequest{ID: created.Project.ID}, &DeleteProjectResponse{}))

	err = h.call("", "GetProject", &GetProjectRequest{ID: created.Project.ID}, &ProjectResponse{})
	requireCode(t, codes.NotFound, err)

	var me ProfileResponse
	require.NoError(t, h.call(owner, "Me", &MeRequest{}, &me))
	assert.Len(t, me.Projects, 1)
	require.Len(t, me.Badges, 1)
}

func TestHandler_ToggleStar(t *testing.T) {
	h := newHarness(t)
	owner, _ := h.signup(t, "owner@example.com")
	fan, _ := h.signup(t, "fan@example.com")

	var created CreateProjectResponse
	require.NoError(t, h.call(owner, "CreateProject", &CreateProjectRequest{Title: "alpha"}, &created))

	var resp ToggleStarResponse
	require.NoError(t, h.call(fan, "ToggleStar", &ToggleStarRequest{ProjectID: created.Project.ID}, &resp))
	assert.True(t, resp.Starred)
	assert.Equal(t, int64(1), resp.StarCount)

	resp = ToggleStarResponse{}
	require.NoError(t, h.call(fan, "ToggleStar", &ToggleStarRequest{ProjectID: created.Project.ID}, &resp))
	assert.False(t, resp.Starred)
	assert.Equal(t, int64(0), resp.StarCount)

	err := h.call(fan, "ToggleStar", &ToggleStarRequest{ProjectID: 12345}, &ToggleStarResponse{})
	requireCode(t, codes.NotFound, err)
}

func TestHandler_BroadcastAndDashboard(t *testing.T) {
	h := newHarness(t)
	user, _ := h.signup(t, "user@example.com")
	admin := h.adminToken(t)

	err := h.call(user, "Broadcast", &BroadcastRequest{Message: "hi"}, &BroadcastResponse{})
	requireCode(t, codes.PermissionDenied, err)

	err = h.call(admin, "Broadcast", &BroadcastRequest{Message: ""}, &BroadcastResponse{})
	requireCode(t, codes.InvalidArgument, err)

	var sent BroadcastResponse
	require.NoError(t, h.call(admin, "Broadcast", &BroadcastRequest{Message: "Demo day", Channels: []string{"email"}}, &sent))
	assert.Equal(t, "alert", sent.Notification.Type)
	assert.Equal(t, "all", sent.Notification.TargetGroup)

	var dash DashboardResponse
	require.NoError(t, h.call("", "Dashboard", &DashboardRequest{}, &dash))
	require.Len(t, dash.Notifications, 1)
	assert.Equal(t, "Demo day", dash.Notifications[0].Message)
}
