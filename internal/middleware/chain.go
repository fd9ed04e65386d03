package middleware

import "github.com/valyala/fasthttp"

// Chain applies middlewares so that the first one listed runs outermost.
func Chain(h fasthttp.RequestHandler, mws ...func(fasthttp.RequestHandler) fasthttp.RequestHandler) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
