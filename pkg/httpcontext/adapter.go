package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/todo/pkg/logger"
)

// RequestIDHeader is read from requests and echoed on responses.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client-supplied ids before they reach logs.
const maxRequestIDLen = 128

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// Adapter derives a deadline-bound stdlib context from a fasthttp request.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs an Adapter. Non-positive timeouts fall back to 5s.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Timeout returns the per-request deadline.
func (a *Adapter) Timeout() time.Duration {
	return a.timeout
}

// Attach returns a context carrying the request id and client metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	stdCtx = appLogger.ContextWithRequestID(stdCtx, EnsureRequestID(ctx))

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// EnsureRequestID returns the request id of ctx, generating one when the
// client sent none or an oversized one. The id is written back to the request
// so later calls agree, and set on the response.
func EnsureRequestID(ctx *fasthttp.RequestCtx) string {
	reqID := strings.TrimSpace(string(ctx.Request.Header.Peek(RequestIDHeader)))
	if reqID == "" || len(reqID) > maxRequestIDLen {
		reqID = uuid.NewString()
		ctx.Request.Header.Set(RequestIDHeader, reqID)
	}
	ctx.Response.Header.Set(RequestIDHeader, reqID)
	return reqID
}
