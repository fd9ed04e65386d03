package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
	"github.com/fastygo/todo/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}
	ctx.Response.Header.SetContentType("application/json; charset=utf-8")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (h baseHandler) respondEmpty(ctx *fasthttp.RequestCtx, status int) {
	ctx.SetStatusCode(status)
	ctx.ResetBody()
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status := mapError(err)
	switch status {
	case http.StatusNotFound:
		h.respondEmpty(ctx, status)
	case http.StatusBadRequest:
		h.respondJSON(ctx, status, transport.ErrorResponse{Error: errorMessage(err)})
	default:
		logger.WithRequestID(stdCtx, h.logger).Error("request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
		h.respondJSON(ctx, status, transport.ErrorResponse{Error: "An unexpected error occurred."})
	}
}

func mapError(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return err.Error()
}
