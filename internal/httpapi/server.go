// Package httpapi serves the task JSON API and health endpoints.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"task-manager/internal/model"
	"task-manager/internal/observability/jsonlog"
	"task-manager/internal/task"
)

type TaskService interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	Create(ctx context.Context, in task.CreateInput) (model.Task, error)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}

type Options struct {
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	// Dashboard, when set, is served at GET /.
	Dashboard http.Handler
}

type Server struct {
	service TaskService
	log     *jsonlog.Logger
	opts    Options
	mux     *http.ServeMux
	handler http.Handler
}

func NewServer(service TaskService, ready Pinger, logger *jsonlog.Logger, opts Options) *Server {
	if logger == nil {
		logger = jsonlog.Discard()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	srv := &Server{
		service: service,
		log:     logger,
		opts:    opts,
		mux:     http.NewServeMux(),
	}

	srv.mux.HandleFunc("GET /healthz", HealthzHandler())
	srv.mux.HandleFunc("GET /readyz", ReadyzHandler(ready))

	srv.mux.HandleFunc("GET /tasks", srv.handleListTasks)
	srv.mux.HandleFunc("POST /tasks", srv.handleCreateTask)
	srv.mux.HandleFunc("GET /tasks/{id}", srv.handleGetTask)
	srv.mux.HandleFunc("PUT /tasks/{id}", srv.handleUpdateTask)
	srv.mux.HandleFunc("DELETE /tasks/{id}", srv.handleDeleteTask)

	if opts.Dashboard != nil {
		srv.mux.Handle("GET /{$}", opts.Dashboard)
	}

	srv.handler = WithRequestID(Logging(logger)(Timeout(opts.RequestTimeout)(srv.mux)))
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
