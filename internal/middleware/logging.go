package middleware

import (
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/pkg/metrics"
)

// AccessLog writes one log line per request and records its latency.
func AccessLog(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)
			elapsed := time.Since(start)

			status := ctx.Response.StatusCode()
			method := string(ctx.Method())
			metrics.RecordHTTPRequest(method, routeLabel(ctx), strconv.Itoa(status), elapsed)

			fields := []zap.Field{
				zap.String("method", method),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
				zap.ByteString("request_id", ctx.Response.Header.Peek("X-Request-ID")),
			}
			if status >= fasthttp.StatusInternalServerError {
				logger.Warn("request completed", fields...)
				return
			}
			logger.Info("request completed", fields...)
		}
	}
}

// routeLabel keeps metric cardinality bounded by using the route template, not the raw path.
func routeLabel(ctx *fasthttp.RequestCtx) string {
	if route, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && route != "" {
		return route
	}
	if ctx.IsOptions() {
		return "preflight"
	}
	return "unmatched"
}
