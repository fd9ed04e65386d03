package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
	taskUC "github.com/fastygo/todo/usecase/task"
)

// TasksPath is the collection route; item routes append "/{id}".
const TasksPath = "/api/v1/tasks"

// TotalCountHeader carries the size of the filtered set of a listing.
const TotalCountHeader = "X-Total-Count"

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Param status query string false "all|active|completed"
// @Param sort query string false "dueDate|createdAt"
// @Param order query string false "asc|desc"
// @Router /api/v1/tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	params := taskUC.ListParams{
		Status:   string(args.Peek("status")),
		Sort:     string(args.Peek("sort")),
		Order:    string(args.Peek("order")),
		Page:     parseInt(string(args.Peek("page")), 1),
		PageSize: parseInt(string(args.Peek("pageSize")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page, err := h.uc.ListTasks(stdCtx, params)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.Response.Header.Set(TotalCountHeader, strconv.Itoa(page.Total))
	h.respondJSON(ctx, http.StatusOK, transport.NewTaskDTOs(page.Tasks))
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTaskDTO(task))
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, taskUC.CreateInput{
		Title:   req.Title,
		Notes:   req.Notes,
		DueDate: req.DueDate,
		Done:    req.Done,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.Response.Header.Set(fasthttp.HeaderLocation, TasksPath+"/"+created.ID)
	h.respondJSON(ctx, http.StatusCreated, transport.NewTaskDTO(created))
}

// @Summary Partially update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	var req transport.UpdateTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, taskID(ctx), req)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTaskDTO(updated))
}

// @Summary Set task done flag
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	var req transport.ToggleTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.ToggleTask(stdCtx, taskID(ctx), req.Done)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewTaskDTO(updated))
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, taskID(ctx)); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondEmpty(ctx, http.StatusNoContent)
}

// decode parses the JSON body into dst and answers 400 on malformed input.
func (h *TaskHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Error: domain.ErrInvalidPayload.Message})
		return false
	}
	return true
}

func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
