// Package web renders the read-only task dashboard.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"task-manager/internal/model"
	"task-manager/internal/observability/jsonlog"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

type Lister interface {
	List(ctx context.Context) ([]model.Task, error)
}

type Dashboard struct {
	tasks Lister
	log   *jsonlog.Logger
}

func NewDashboard(tasks Lister, logger *jsonlog.Logger) *Dashboard {
	if logger == nil {
		logger = jsonlog.Discard()
	}
	return &Dashboard{
		tasks: tasks,
		log:   logger,
	}
}

type pageData struct {
	LoadError bool
	Total     int
	Completed int
	Pending   int
	High      int
	Rows      []row
}

type row struct {
	ID            int64
	Title         string
	Description   string
	Completed     bool
	Priority      string
	PriorityClass string
	Created       string
}

func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var data pageData

	tasks, err := d.tasks.List(r.Context())
	if err != nil {
		d.log.Error("dashboard_list_failed", map[string]any{"err": err})
		data.LoadError = true
	}
	d.fill(&data, tasks)

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		d.log.Error("dashboard_render_failed", map[string]any{"err": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (d *Dashboard) fill(data *pageData, tasks []model.Task) {
	data.Total = len(tasks)
	data.Rows = make([]row, 0, len(tasks))
	// a Caser is stateful; one per render
	title := cases.Title(language.English)

	for _, t := range tasks {
		if t.Completed {
			data.Completed++
		} else {
			data.Pending++
		}
		if t.Priority != nil && *t.Priority == model.PriorityHigh {
			data.High++
		}

		rw := row{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
			Priority:  "None",
			Created:   t.CreatedAt.Format("Jan 2, 2006"),
		}
		if rw.Title == "" {
			rw.Title = "Untitled Task"
		}
		if t.Description != nil {
			rw.Description = *t.Description
		}
		if t.Priority != nil && *t.Priority != "" {
			rw.Priority = title.String(string(*t.Priority))
			rw.PriorityClass = "priority-" + string(*t.Priority)
		}
		data.Rows = append(data.Rows, rw)
	}
}
