package interceptors

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
)

type contextKey string

const (
	// SessionContextKey is the key used to store/retrieve the stream session id from context
	SessionContextKey contextKey = "stream_session"
)

// NewStreamSessionInterceptor stamps every stream with a session id before the handler runs.
func NewStreamSessionInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		// [ENRICHMENT] Inject the session id into the context for downstream handlers
		newCtx := context.WithValue(ss.Context(), SessionContextKey, uuid.NewString())

		// [STREAM_WRAPPING] Override the context of the original stream
		wrapped := &wrappedStream{
			ServerStream: ss,
			ctx:          newCtx,
		}

		return handler(srv, wrapped)
	}
}

// wrappedStream is a thin wrapper to inject a new context into a gRPC stream.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}

// GetSessionID extracts the session id from context; empty when the interceptor did not run.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionContextKey).(string)
	return id
}
