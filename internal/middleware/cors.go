package middleware

import (
	"github.com/valyala/fasthttp"
)

const (
	corsAllowMethods  = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	corsAllowHeaders  = "Content-Type, Authorization"
	corsExposeHeaders = "X-Total-Count"
)

// CORS allows every origin and answers preflight requests before routing.
func CORS() func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			h := &ctx.Response.Header
			h.Set(fasthttp.HeaderAccessControlAllowOrigin, "*")
			h.Set(fasthttp.HeaderAccessControlAllowMethods, corsAllowMethods)
			h.Set(fasthttp.HeaderAccessControlAllowHeaders, corsAllowHeaders)
			h.Set(fasthttp.HeaderAccessControlExposeHeaders, corsExposeHeaders)

			if ctx.IsOptions() {
				ctx.SetStatusCode(fasthttp.StatusOK)
				ctx.ResetBody()
				return
			}

			next(ctx)
		}
	}
}
