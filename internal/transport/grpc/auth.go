package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"minibizz/planning/internal/auth"
)

// OwnerInterceptor resolves the calendar owner from the "authorization"
// metadata of scheduling calls. Health and reflection calls pass through.
func OwnerInterceptor(cfg auth.Config) grpc.UnaryServerInterceptor {
	prefix := "/" + ServiceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return handler(ctx, req)
		}
		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get("authorization"); len(v) > 0 {
				header = v[0]
			}
		}
		owner, err := cfg.Owner(header)
		if errors.Is(err, auth.ErrMissingToken) {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		return handler(auth.WithOwner(ctx, owner), req)
	}
}
