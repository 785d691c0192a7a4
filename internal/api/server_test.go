package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"studytrack/internal/model"
	"studytrack/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Config{Addr: ":0", OwnerID: 1}, store.NewMemoryStore(nil), store.NewNopLogger())
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *http.Response {
	t.Helper()
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestReminderRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/reminders",
		`{"title":"Math","time":"14:00","category":"study-session"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/reminders status = %d, want 201", resp.StatusCode)
	}
	created := decode[model.Reminder](t, resp)
	if created.Completed {
		t.Error("created reminder Completed = true, want false")
	}

	resp = doJSON(t, srv, http.MethodGet, "/api/reminders", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/reminders status = %d, want 200", resp.StatusCode)
	}
	reminders := decode[[]model.Reminder](t, resp)
	if len(reminders) != 1 || reminders[0].Title != "Math" {
		t.Fatalf("reminders = %+v, want the created one", reminders)
	}

	id := strconv.FormatInt(created.ID, 10)
	resp = doJSON(t, srv, http.MethodPatch, "/api/reminders/"+id, `{"completed":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PATCH /api/reminders/%s status = %d, want 200", id, resp.StatusCode)
	}
	patched := decode[model.Reminder](t, resp)
	if !patched.Completed {
		t.Error("patched reminder Completed = false, want true")
	}
	if patched.Title != "Math" || patched.Time != "14:00" {
		t.Errorf("patch changed unrelated fields: %+v", patched)
	}

	resp = doJSON(t, srv, http.MethodDelete, "/api/reminders/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("DELETE /api/reminders/%s status = %d, want 200", id, resp.StatusCode)
	}

	// delete is idempotent at the transport layer too
	resp = doJSON(t, srv, http.MethodDelete, "/api/reminders/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("second DELETE status = %d, want 200", resp.StatusCode)
	}
}

func TestCreateReminder_Invalid(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty title", body: `{"title":"","time":"14:00","category":"study-session"}`},
		{name: "missing category", body: `{"title":"Math","time":"14:00"}`},
		{name: "malformed json", body: `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, srv, http.MethodPost, "/api/reminders", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestUpdateReminder_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPatch, "/api/reminders/42", `{"completed":true}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("PATCH missing reminder status = %d, want 404", resp.StatusCode)
	}
}

func TestDiaryRoutes_NewestFirst(t *testing.T) {
	srv := newTestServer(t)

	for _, title := range []string{"first", "second", "third"} {
		resp := doJSON(t, srv, http.MethodPost, "/api/diary-entries",
			`{"title":"`+title+`","content":"text","mood":"good"}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("POST diary %q status = %d, want 201", title, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp := doJSON(t, srv, http.MethodGet, "/api/diary-entries", "")
	entries := decode[[]model.DiaryEntry](t, resp)
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for i, want := range []string{"third", "second", "first"} {
		if entries[i].Title != want {
			t.Errorf("entries[%d].Title = %q, want %q", i, entries[i].Title, want)
		}
	}
}

func TestMoodRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/mood-entries", `{"mood":"stressed"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/mood-entries status = %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodPost, "/api/mood-entries", `{"mood":"furious"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST invalid mood status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodGet, "/api/mood-entries", "")
	entries := decode[[]model.MoodEntry](t, resp)
	if len(entries) != 1 || entries[0].Mood != "stressed" {
		t.Errorf("entries = %+v, want only the valid check-in", entries)
	}
}

func TestStudyMaterialRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/study-materials",
		`{"title":"Calculus cheat sheet","type":"pdf","category":"math"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/study-materials status = %d, want 201", resp.StatusCode)
	}
	created := decode[model.StudyMaterial](t, resp)

	resp = doJSON(t, srv, http.MethodGet, "/api/study-materials", "")
	materials := decode[[]model.StudyMaterial](t, resp)
	if len(materials) != 1 || materials[0].ID != created.ID {
		t.Fatalf("materials = %+v, want the created one", materials)
	}

	id := strconv.FormatInt(created.ID, 10)
	resp = doJSON(t, srv, http.MethodDelete, "/api/study-materials/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("DELETE /api/study-materials/%s status = %d, want 200", id, resp.StatusCode)
	}
}

func TestBadIDParam(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodDelete, "/api/reminders/abc", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("DELETE with non-numeric id status = %d, want 400", resp.StatusCode)
	}
}
