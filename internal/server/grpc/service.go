package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "trophy.TrophyService"

// FullMethod returns the "/service/method" path of a TrophyService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// TrophyServiceServer is the server API for TrophyService.
type TrophyServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*UserResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Me(context.Context, *MeRequest) (*ProfileResponse, error)
	GetUser(context.Context, *GetUserRequest) (*ProfileResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*UserResponse, error)
	CreateProject(context.Context, *CreateProjectRequest) (*CreateProjectResponse, error)
	GetProject(context.Context, *GetProjectRequest) (*ProjectResponse, error)
	ListProjects(context.Context, *ListProjectsRequest) (*ListProjectsResponse, error)
	UpdateProject(context.Context, *UpdateProjectRequest) (*ProjectResponse, error)
	DeleteProject(context.Context, *DeleteProjectRequest) (*DeleteProjectResponse, error)
	ToggleStar(context.Context, *ToggleStarRequest) (*ToggleStarResponse, error)
	ProjectMediaUploadURL(context.Context, *ProjectMediaUploadURLRequest) (*ProjectMediaUploadURLResponse, error)
	Broadcast(context.Context, *BroadcastRequest) (*BroadcastResponse, error)
	Dashboard(context.Context, *DashboardRequest) (*DashboardResponse, error)
}

// unary builds the MethodDesc for one request/response method.
func unary[Req, Resp any](name string, call func(TrophyServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			impl := srv.(TrophyServiceServer)
			if interceptor == nil {
				return call(impl, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(impl, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// TrophyServiceDesc describes TrophyService for grpc.Server.RegisterService.
var TrophyServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrophyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", TrophyServiceServer.Ping),
		unary("Register", TrophyServiceServer.Register),
		unary("Login", TrophyServiceServer.Login),
		unary("Me", TrophyServiceServer.Me),
		unary("GetUser", TrophyServiceServer.GetUser),
		unary("UpdateProfile", TrophyServiceServer.UpdateProfile),
		unary("CreateProject", TrophyServiceServer.CreateProject),
		unary("GetProject", TrophyServiceServer.GetProject),
		unary("ListProjects", TrophyServiceServer.ListProjects),
		unary("UpdateProject", TrophyServiceServer.UpdateProject),
		unary("DeleteProject", TrophyServiceServer.DeleteProject),
		unary("ToggleStar", TrophyServiceServer.ToggleStar),
		unary("ProjectMediaUploadURL", TrophyServiceServer.ProjectMediaUploadURL),
		unary("Broadcast", TrophyServiceServer.Broadcast),
		unary("Dashboard", TrophyServiceServer.Dashboard),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trophy.proto",
}

// RegisterTrophyServiceServer registers srv on s.
func RegisterTrophyServiceServer(s grpc.ServiceRegistrar, srv TrophyServiceServer) {
	s.RegisterService(&TrophyServiceDesc, srv)
}
