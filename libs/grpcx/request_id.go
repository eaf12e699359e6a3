package grpcx

import (
	"context"

	"github.com/md-rashed-zaman/roombook/libs/httpx"
	"google.golang.org/grpc/metadata"
)

// RequestIDMetadataKey carries the request id in gRPC metadata. Keys are
// lowercase on the wire.
const RequestIDMetadataKey = "x-request-id"

// RequestIDFromContext returns the id set by either the HTTP middleware or
// the server interceptor.
func RequestIDFromContext(ctx context.Context) string {
	return httpx.RequestIDFromContext(ctx)
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(RequestIDMetadataKey); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
