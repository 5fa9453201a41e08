package bus

import (
	"context"
	"time"

	"go.uber.org/zap"

	pkgerrors "nodetree/pkg/errors"
)

// ValidationMiddleware rejects messages whose schema check fails before the
// handler runs. Valid messages are forwarded unchanged.
func ValidationMiddleware() Middleware {
	return func(next HandleFunc) HandleFunc {
		return func(ctx context.Context, msg Message) (any, error) {
			if err := msg.Validate(); err != nil {
				return nil, err
			}
			return next(ctx, msg)
		}
	}
}

// LoggingMiddleware logs every message with its payload and outcome
func LoggingMiddleware(logger *zap.Logger, kind string) Middleware {
	return func(next HandleFunc) HandleFunc {
		return func(ctx context.Context, msg Message) (any, error) {
			name := msg.MessageName()
			logger.Info("Processing "+kind,
				zap.String(kind, name),
				zap.Any("payload", msg),
			)

			start := time.Now()
			res, err := next(ctx, msg)
			fields := []zap.Field{
				zap.String(kind, name),
				zap.Duration("duration", time.Since(start)),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				if appErr := pkgerrors.GetAppError(err); appErr != nil && appErr.Exposed() {
					logger.Warn(kind+" rejected", fields...)
				} else {
					logger.Error(kind+" processing failed", fields...)
				}
				return nil, err
			}

			logger.Info(kind+" processed successfully", append(fields, zap.Any("result", res))...)
			return res, nil
		}
	}
}

// Metrics records counters and timings
type Metrics interface {
	StartTimer(metric, label string) Timer
	Increment(metric, label string)
}

// Timer is stopped once the timed work is done. It is an alias so that
// sinks can return the bare interface type.
type Timer = interface {
	Stop()
}

// MetricsMiddleware counts and times every message
func MetricsMiddleware(metrics Metrics, kind string) Middleware {
	return func(next HandleFunc) HandleFunc {
		return func(ctx context.Context, msg Message) (any, error) {
			name := msg.MessageName()

			timer := metrics.StartTimer(kind+"_duration", name)
			defer timer.Stop()

			metrics.Increment(kind+"_count", name)

			res, err := next(ctx, msg)
			if err != nil {
				metrics.Increment(kind+"_errors", name)
				return nil, err
			}

			metrics.Increment(kind+"_success", name)
			return res, nil
		}
	}
}

// Tracer runs a function inside a trace span
type Tracer interface {
	TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error
}

// TracingMiddleware wraps every message in a span named "<kind>.<name>"
func TracingMiddleware(tracer Tracer, kind string) Middleware {
	return func(next HandleFunc) HandleFunc {
		return func(ctx context.Context, msg Message) (any, error) {
			var res any
			err := tracer.TraceFunction(ctx, kind+"."+msg.MessageName(), func(ctx context.Context) error {
				var err error
				res, err = next(ctx, msg)
				return err
			})
			return res, err
		}
	}
}
