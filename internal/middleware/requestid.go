package middleware

import (
	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/pkg/httpcontext"
)

// RequestID stamps X-Request-ID on every response, including those written
// before a handler builds its request context.
func RequestID() func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			httpcontext.EnsureRequestID(ctx)
			next(ctx)
		}
	}
}
