package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/trophy/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrInvalidCredentials, codes.Unauthenticated},
	{common.ErrInvalidSignature, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrMalformedToken, codes.Unauthenticated},
	{common.ErrIdentityNotFound, codes.Unauthenticated},
	{common.ErrForbidden, codes.PermissionDenied},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrConflict, codes.AlreadyExists},
	{common.ErrValidation, codes.InvalidArgument},
	{common.ErrTooManyAttempts, codes.ResourceExhausted},
	{common.ErrStorageUnavailable, codes.Unavailable},
}

// toStatus converts a service error into a gRPC status. The message is the
// matched sentinel's text so storage details never reach the client.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			if e.code == codes.Unavailable {
				s.logger.Warn(ctx, "storage unavailable", "error", err.Error())
			}
			return status.Error(e.code, e.err.Error())
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}

	s.logger.Error(ctx, "request failed", "error", err.Error())
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}
