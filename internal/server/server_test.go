package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/taskflow/internal/app"
	"github.com/abatilo/taskflow/internal/category"
	"github.com/abatilo/taskflow/internal/storage"
	"github.com/abatilo/taskflow/internal/store"
	"github.com/abatilo/taskflow/internal/task"
)

type taskResponse struct {
	Task    task.Task `json:"task"`
	Message string    `json:"message"`
	Error   string    `json:"error"`
}

type listResponse struct {
	Tasks []task.Task `json:"tasks"`
	Stats struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Pending   int `json:"pending"`
		Overdue   int `json:"overdue"`
	} `json:"stats"`
}

func newServer(t *testing.T) *Server {
	t.Helper()
	s := store.New(storage.NewAdapter(storage.NewMemorySlot(storage.DefaultSlotName), nil))
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	a := app.New(s, category.Default(), app.WithClock(func() time.Time { return now }))
	t.Cleanup(a.Close)
	return New(a, nil)
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCategories(t *testing.T) {
	rec := do(t, newServer(t), http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Learning"`)
}

func TestTaskLifecycle(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, http.MethodPost, "/api/tasks", map[string]string{
		"title":    "Ship report",
		"dueDate":  "2026-10-16",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[taskResponse](t, rec)
	assert.Equal(t, "Task created successfully!", created.Message)
	assert.Equal(t, task.StatusPending, created.Task.Status)
	assert.Equal(t, task.DefaultCategoryID, created.Task.CategoryID)
	id := created.Task.ID

	list := decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks", nil))
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, 1, list.Stats.Overdue)

	rec = do(t, srv, http.MethodPut, "/api/tasks/"+id, map[string]string{"description": "Q3"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[taskResponse](t, rec)
	assert.Equal(t, "Ship report", updated.Task.Title, "omitted fields keep their values")
	assert.Equal(t, "Q3", updated.Task.Description)

	rec = do(t, srv, http.MethodPost, "/api/tasks/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	toggled := decode[taskResponse](t, rec)
	assert.Equal(t, task.StatusCompleted, toggled.Task.Status)
	assert.Equal(t, "Task completed!", toggled.Message)

	list = decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks?status=pending", nil))
	assert.Empty(t, list.Tasks)
	assert.Equal(t, 0, list.Stats.Overdue)

	rec = do(t, srv, http.MethodDelete, "/api/tasks/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, srv, http.MethodDelete, "/api/tasks/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code, "delete is idempotent")

	rec = do(t, srv, http.MethodGet, "/api/tasks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"blank title", http.MethodPost, "/api/tasks", map[string]string{"title": "  "}, http.StatusBadRequest},
		{"bad priority", http.MethodPost, "/api/tasks", map[string]string{"title": "x", "priority": "urgent"}, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/tasks", map[string]string{"title": "x", "dueDate": "soon"}, http.StatusBadRequest},
		{"bad status filter", http.MethodGet, "/api/tasks?status=done", nil, http.StatusBadRequest},
		{"update missing", http.MethodPut, "/api/tasks/nope", map[string]string{"title": "x"}, http.StatusNotFound},
		{"toggle missing", http.MethodPost, "/api/tasks/nope/toggle", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[taskResponse](t, rec).Error)
		})
	}

	list := decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks", nil))
	assert.Empty(t, list.Tasks, "failed requests must not change the collection")
}

func TestListFilters(t *testing.T) {
	srv := newServer(t)
	for _, body := range []map[string]string{
		{"title": "Write report", "categoryId": "1"},
		{"title": "Go running", "categoryId": "3"},
		{"title": "Read book", "categoryId": "4", "description": "a report on running"},
	} {
		require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/tasks", body).Code)
	}

	list := decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks?category=3", nil))
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "Go running", list.Tasks[0].Title)

	list = decode[listResponse](t, do(t, srv, http.MethodGet, "/api/tasks?search=REPORT", nil))
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, "Write report", list.Tasks[0].Title)
	assert.Equal(t, "Read book", list.Tasks[1].Title)
	assert.Equal(t, 3, list.Stats.Total)
}
