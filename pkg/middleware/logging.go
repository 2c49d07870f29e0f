package middleware

import (
	"context"
	"log/slog"

	"github.com/vango-dev/docroutes/pkg/router"
)

// Logging returns a Decorator that logs resolutions: successes at debug
// level, failures other than invalid paths at warn level.
func Logging(logger *slog.Logger) Decorator {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next router.Resolver) router.Resolver {
		return router.ResolverFunc(func(ctx context.Context, path string) (*router.Match, error) {
			match, err := next.Resolve(ctx, path)
			outcome := Outcome(match, err)

			switch outcome {
			case OutcomeMatched, OutcomeFallback:
				logger.LogAttrs(ctx, slog.LevelDebug, "route resolved",
					slog.String("path", path),
					slog.String("route", match.Pattern),
					slog.String("component", match.Component().String()),
					slog.Bool("fallback", match.Fallback),
				)
			case OutcomeInvalid:
				logger.LogAttrs(ctx, slog.LevelDebug, "invalid request path",
					slog.String("path", path),
					slog.Any("error", err),
				)
			default:
				logger.LogAttrs(ctx, slog.LevelWarn, "route resolution failed",
					slog.String("path", path),
					slog.String("outcome", outcome),
					slog.Any("error", err),
				)
			}
			return match, err
		})
	}
}
