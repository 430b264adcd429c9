package httpapi

import (
	"errors"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"task-manager/internal/model"
	"task-manager/internal/task"
)

const (
	msgFetchTasks  = "Failed to fetch tasks"
	msgFetchTask   = "Failed to fetch task"
	msgCreateTask  = "Failed to create task"
	msgUpdateTask  = "Failed to update task"
	msgDeleteTask  = "Failed to delete task"
	msgNotFound    = "Task not found"
	msgInvalidID   = "invalid task id"
	msgTaskDeleted = "Task deleted"
)

type createTaskRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Priority    *model.Priority `json:"priority"`
	Completed   *bool           `json:"completed"`
}

type updateTaskRequest struct {
	Title       model.Field[string]          `json:"title"`
	Description model.Field[*string]         `json:"description"`
	Priority    model.Field[*model.Priority] `json:"priority"`
	Completed   model.Field[bool]            `json:"completed"`
}

func (req updateTaskRequest) patch() model.TaskPatch {
	return model.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
	}
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.service.List(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err, msgFetchTasks)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	found, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, msgFetchTask)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !s.readRequest(w, r, createSchema, &req) {
		return
	}

	created, err := s.service.Create(r.Context(), task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
	})
	if err != nil {
		s.writeStoreError(w, r, err, msgCreateTask)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if !s.readRequest(w, r, updateSchema, &req) {
		return
	}

	updated, err := s.service.Update(r.Context(), id, req.patch())
	if err != nil {
		s.writeStoreError(w, r, err, msgUpdateTask)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err, msgDeleteTask)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msgTaskDeleted})
}

// pathID parses the {id} segment, writing a 400 when it is not an integer.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := task.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

// readRequest reads the body, checks it against schema and decodes it into v.
// On failure it writes a 400 and returns false.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, v any) bool {
	body, err := readBody(r, s.opts.MaxBodyBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := validateBody(schema, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := decodeJSON(body, v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeStoreError maps a service error to a response. Store failures are
// logged with the request id and reported with the fixed message msg.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		s.log.Error("store_error", map[string]any{
			"rid":    RequestIDFromContext(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
			"err":    err,
		})
		writeError(w, http.StatusInternalServerError, msg)
	}
}
