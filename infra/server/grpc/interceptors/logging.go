package interceptors

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SlogLogger adapts slog to the go-grpc-middleware logger.
func SlogLogger(l *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

// StreamLogging logs start and finish of every stream.
func StreamLogging(l *slog.Logger) grpc.StreamServerInterceptor {
	return logging.StreamServerInterceptor(SlogLogger(l),
		logging.WithLogOnEvents(logging.StartCall, logging.FinishCall),
	)
}

func UnaryLogging(l *slog.Logger) grpc.UnaryServerInterceptor {
	return logging.UnaryServerInterceptor(SlogLogger(l),
		logging.WithLogOnEvents(logging.FinishCall),
	)
}

func recoveryHandler(l *slog.Logger) recovery.RecoveryHandlerFuncContext {
	return func(ctx context.Context, p any) error {
		l.ErrorContext(ctx, "PANIC_RECOVERED", "err", p, "stack", string(debug.Stack()))
		return status.Error(codes.Internal, "internal error")
	}
}

// StreamRecovery turns handler panics into codes.Internal.
func StreamRecovery(l *slog.Logger) grpc.StreamServerInterceptor {
	return recovery.StreamServerInterceptor(recovery.WithRecoveryHandlerContext(recoveryHandler(l)))
}

func UnaryRecovery(l *slog.Logger) grpc.UnaryServerInterceptor {
	return recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(recoveryHandler(l)))
}
