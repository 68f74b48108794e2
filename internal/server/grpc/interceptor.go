package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userKey ctxKey = "user"

// publicMethods may be called without an access token.
var publicMethods = map[string]bool{
	FullMethod("Ping"):         true,
	FullMethod("Register"):     true,
	FullMethod("Login"):        true,
	FullMethod("GetUser"):      true,
	FullMethod("GetProject"):   true,
	FullMethod("ListProjects"): true,
	FullMethod("Dashboard"):    true,
}

// UserFromContext returns the identity resolved by the access token
// interceptor.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func accessToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// accessTokenInterceptor resolves the caller for every non-public method and
// stores it in the request context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	token := accessToken(ctx)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	user, err := s.auth.Resolve(ctx, token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return handler(context.WithValue(ctx, userKey, user), req)
}

// loggingInterceptor writes one line per call with its outcome.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration_ms", time.Since(start).Milliseconds()}

	switch code {
	case codes.OK:
		s.logger.Debug(ctx, "rpc", args...)
	case codes.Internal, codes.Unavailable:
		s.logger.Error(ctx, "rpc", args...)
	default:
		s.logger.Info(ctx, "rpc", args...)
	}
	return resp, err
}
