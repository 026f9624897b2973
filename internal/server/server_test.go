package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cardforge/internal/platform"
	"github.com/aretw0/cardforge/internal/server"
	"github.com/aretw0/cardforge/pkg/adapters/memory"
	"github.com/aretw0/cardforge/pkg/core"
	"github.com/aretw0/cardforge/pkg/notify"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeSummarizer struct {
	configured bool
}

func (f fakeSummarizer) Configured() bool { return f.configured }

func (f fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if !f.configured {
		return "", core.ErrServiceUnavailable
	}
	return "summary of " + text, nil
}

func newServer(t *testing.T, opts ...platform.Option) (*server.Server, *platform.App) {
	t.Helper()

	var mu sync.Mutex
	n := 0
	ids := func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}

	base := []platform.Option{
		platform.WithPrimary(memory.New("primary")),
		platform.WithFallback(memory.New("fallback")),
		platform.WithClock(func() time.Time { return fixedNow }),
		platform.WithIDGenerator(ids),
		platform.WithSummarizer(fakeSummarizer{configured: true}),
	}
	app, err := platform.New(context.Background(), t.TempDir(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	srv := server.New(app, server.Config{
		Addr:        "127.0.0.1:0",
		CORSOrigins: []string{"http://localhost:5173"},
		Now:         func() time.Time { return fixedNow },
	})
	return srv, app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") && w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestNotes_CRUD(t *testing.T) {
	srv, app := newServer(t)
	h := srv.Handler()

	w, env := do(t, h, http.MethodPost, "/api/notes", `{"title":"Groceries","tags":["home"," "]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[core.Note](t, env.Data)
	assert.Equal(t, "Groceries", created.Title)
	assert.Equal(t, []string{"home"}, created.Tags)
	assert.Equal(t, app.Collection.CurrentProjectID(), created.ProjectID)

	w, env = do(t, h, http.MethodGet, "/api/notes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[core.Note](t, env.Data).ID)

	w, env = do(t, h, http.MethodPatch, "/api/notes/"+created.ID, `{"pinned":true,"title":"Shopping"}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[core.Note](t, env.Data)
	assert.True(t, updated.Pinned)
	assert.Equal(t, "shopping", updated.TitleLC)

	w, _ = do(t, h, http.MethodPatch, "/api/notes/missing", `{"pinned":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, h, http.MethodDelete, "/api/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, h, http.MethodGet, "/api/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, h, http.MethodDelete, "/api/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotes_Validation(t *testing.T) {
	srv, _ := newServer(t)
	h := srv.Handler()

	w, env := do(t, h, http.MethodPost, "/api/notes", `{"title":"x","due_date":"next week"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, h, http.MethodPost, "/api/notes", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, h, http.MethodPost, "/api/notes", `{"project_id":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotes_ListQuery(t *testing.T) {
	srv, app := newServer(t)
	h := srv.Handler()
	ctx := context.Background()

	work, err := app.Collection.CreateProject(ctx, core.ProjectInput{Name: "Work"})
	require.NoError(t, err)
	personal := app.Collection.Projects()[0]

	_, err = app.Collection.CreateNote(ctx, core.NoteInput{ProjectID: work.ID, Title: "Beta report"})
	require.NoError(t, err)
	_, err = app.Collection.CreateNote(ctx, core.NoteInput{ProjectID: work.ID, Title: "Alpha plan", Pinned: true})
	require.NoError(t, err)
	_, err = app.Collection.CreateNote(ctx, core.NoteInput{ProjectID: personal.ID, Title: "Gym", Tags: []string{"Health"}})
	require.NoError(t, err)

	titles := func(path string) []string {
		w, env := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)
		var out []string
		for _, n := range decode[[]core.Note](t, env.Data) {
			out = append(out, n.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Alpha plan", "Beta report"}, titles("/api/notes"), "current project is Work")
	assert.Equal(t, []string{"Gym"}, titles("/api/notes?project="+personal.ID))
	assert.Equal(t, []string{"Alpha plan", "Beta report", "Gym"}, titles("/api/notes?project=all&sort=title_asc"))
	assert.Equal(t, []string{"Gym"}, titles("/api/notes?project=all&q=health"))
}

func TestProjects(t *testing.T) {
	srv, app := newServer(t)
	h := srv.Handler()

	w, env := do(t, h, http.MethodPost, "/api/projects", `{"name":"Work","emoji":"💼","color":"blue"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	work := decode[core.Project](t, env.Data)
	assert.Equal(t, core.ColorBlue, work.Color)

	w, env = do(t, h, http.MethodPost, "/api/projects", `{"name":"work"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "already exists")

	w, _ = do(t, h, http.MethodPost, "/api/projects", `{"name":"Odd","color":"teal"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, h, http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]core.Project](t, env.Data), 2)

	w, _ = do(t, h, http.MethodDelete, "/api/projects/"+work.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, app.Collection.Projects(), 1)

	w, _ = do(t, h, http.MethodDelete, "/api/projects/"+work.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelection(t *testing.T) {
	srv, app := newServer(t)
	h := srv.Handler()

	w, _ := do(t, h, http.MethodPut, "/api/selection", `{"project_id":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, app.Collection.CurrentProjectID())

	w, _ = do(t, h, http.MethodPut, "/api/selection", `{"project_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	first := app.Collection.Projects()[0].ID
	w, _ = do(t, h, http.MethodPut, "/api/selection", fmt.Sprintf(`{"project_id":%q}`, first))
	require.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, h, http.MethodGet, "/api/selection", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"project_id":%q}`, first), string(env.Data))
}

func TestPrefs(t *testing.T) {
	srv, _ := newServer(t)
	h := srv.Handler()

	w, env := do(t, h, http.MethodGet, "/api/prefs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"theme":"system"`)

	w, env = do(t, h, http.MethodPut, "/api/prefs", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"theme":"dark"`)

	w, _ = do(t, h, http.MethodPut, "/api/prefs", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, h, http.MethodPost, "/api/prefs/view-mode/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"view_mode":"list"}`, string(env.Data))
}

func TestExportImport(t *testing.T) {
	srv, app := newServer(t)
	h := srv.Handler()
	ctx := context.Background()

	project := app.Collection.Projects()[0]
	_, err := app.Collection.CreateNote(ctx, core.NoteInput{Title: "Exported"})
	require.NoError(t, err)

	w, _ := do(t, h, http.MethodGet, "/api/export?project="+project.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="cardforge-export-personal-2025-03-14.json"`, w.Header().Get("Content-Disposition"))
	document := w.Body.String()
	assert.Contains(t, document, `"Exported"`)

	w, _ = do(t, h, http.MethodGet, "/api/export?format=txt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cardforge-export-all-2025-03-14.txt")
	assert.True(t, strings.HasPrefix(w.Body.String(), "CardForge Notes Export - All Notes"))

	w, _ = do(t, h, http.MethodGet, "/api/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Re-importing into a collection that already has the project skips it.
	w, env := do(t, h, http.MethodPost, "/api/import", document)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Imported 0 projects and 0 notes", env.Message)

	renamed := strings.Replace(document, `"Personal"`, `"Archive"`, 1)
	w, env = do(t, h, http.MethodPost, "/api/import", renamed)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Imported 1 projects and 1 notes", env.Message)
	assert.Len(t, app.Collection.Notes(), 2)

	w, _ = do(t, h, http.MethodPost, "/api/import", `{"notes":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type notifications struct {
	mu   sync.Mutex
	list []core.Notification
}

func (r *notifications) Notify(n core.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

func (r *notifications) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.list))
	for i, n := range r.list {
		out[i] = n.Message
	}
	return out
}

func TestExport_NotifiesEverySink(t *testing.T) {
	sink := &notifications{}
	srv, app := newServer(t, platform.WithNotifier(sink))
	h := srv.Handler()

	w, _ := do(t, h, http.MethodGet, "/api/export?project="+app.Collection.Projects()[0].ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, h, http.MethodGet, "/api/export?format=txt", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{`Exported "Personal" as JSON`, "Exported notes as text"}, sink.messages())
	assert.Eventually(t, func() bool { return len(app.Broker.Recent()) == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestImport_RejectsOversizedBody(t *testing.T) {
	srv, app := newServer(t)
	h := srv.Handler()

	padding := strings.Repeat(" ", 10<<20)
	w, env := do(t, h, http.MethodPost, "/api/import", `{"projects":[],"notes":[]`+padding+`}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, env.Success)
	assert.Len(t, app.Collection.Projects(), 1, "nothing imported")
}

func TestSummarize(t *testing.T) {
	srv, app := newServer(t)
	h := srv.Handler()

	w, env := do(t, h, http.MethodPost, "/api/summarize", `{"text":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"summary":"summary of hello"}`, string(env.Data))

	w, _ = do(t, h, http.MethodPost, "/api/summarize", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	note, err := app.Collection.CreateNote(context.Background(), core.NoteInput{Content: "body"})
	require.NoError(t, err)
	w, env = do(t, h, http.MethodPost, "/api/notes/"+note.ID+"/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"summary":"summary of body"}`, string(env.Data))

	unconfigured, _ := newServer(t, platform.WithSummarizer(fakeSummarizer{}))
	w, _ = do(t, unconfigured.Handler(), http.MethodPost, "/api/summarize", `{"text":"hello"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatusAndCORS(t *testing.T) {
	srv, _ := newServer(t)
	h := srv.Handler()

	w, env := do(t, h, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[platform.Status](t, env.Data)
	assert.Equal(t, "primary", status.Backend)
	assert.False(t, status.Degraded)
	assert.True(t, status.SummaryConfigured)

	req := httptest.NewRequest(http.MethodOptions, "/api/notes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestEvents(t *testing.T) {
	srv, app := newServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	scanner := bufio.NewScanner(resp.Body)
	next := func() (event, data string) {
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			case line == "" && event != "":
				return event, data
			}
		}
		return "", ""
	}

	event, _ := next()
	require.Equal(t, "ready", event)

	_, err = app.Collection.CreateNote(context.Background(), core.NoteInput{Title: "Live"})
	require.NoError(t, err)

	event, data := next()
	assert.Equal(t, "success", event)
	assert.Contains(t, data, `Created \"Live\"`)

	subscribers := func() int { return app.Broker.State().(notify.BrokerState).Subscribers }
	assert.Equal(t, 1, subscribers())
	cancel()
	assert.Eventually(t, func() bool { return subscribers() == 0 }, 2*time.Second, 10*time.Millisecond,
		"subscription released when the client goes away")
}
