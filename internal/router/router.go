package router

import (
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	apiHandler "github.com/fastygo/todo/api/handler"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// New builds the route table. /health is registered only when a health handler is given.
func New(handlers Handlers) *router.Router {
	r := router.New()
	r.SaveMatchedRoutePath = true

	if handlers.Health != nil {
		r.GET("/health", handlers.Health.Check)
	}
	r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))

	const item = apiHandler.TasksPath + "/{id}"
	r.GET(apiHandler.TasksPath, handlers.Task.ListTasks)
	r.POST(apiHandler.TasksPath, handlers.Task.CreateTask)
	r.GET(item, handlers.Task.GetTask)
	r.PATCH(item, handlers.Task.UpdateTask)
	r.DELETE(item, handlers.Task.DeleteTask)
	r.POST(item+"/toggle", handlers.Task.ToggleTask)

	return r
}
