package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tuneshelf/model"
	"tuneshelf/storage"
	"tuneshelf/store"
)

func newTestRouter() http.Handler {
	st := storage.NewMemoryStore()
	return NewRouter(NewAPIHandler(store.NewAccountStore(st), store.NewLibraryStore(st)))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func signup(t *testing.T, router http.Handler, name, email, password string) {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup returned %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("RegisterThenDuplicate", func(t *testing.T) {
		router := newTestRouter()
		signup(t, router, "Ada", "ada@x.com", "secret")

		rr := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
			"name": "Imposter", "email": "ada@x.com", "password": "other",
		})
		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate email, got %d", rr.Code)
		}
	})

	t.Run("RegisterMissingFields", func(t *testing.T) {
		router := newTestRouter()
		rr := doJSON(t, router, http.MethodPost, "/api/auth/register", map[string]string{
			"email": "ada@x.com",
		})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		router := newTestRouter()
		signup(t, router, "Ada", "ada@x.com", "secret")
		doJSON(t, router, http.MethodPost, "/api/auth/logout", nil)

		rr := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "ada@x.com", "password": "wrong",
		})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("SessionLifecycle", func(t *testing.T) {
		router := newTestRouter()
		signup(t, router, "Ada", "ada@x.com", "secret")

		rr := doJSON(t, router, http.MethodGet, "/api/auth/session", nil)
		var session struct {
			User *model.User `json:"user"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &session); err != nil {
			t.Fatalf("bad session body: %v", err)
		}
		if session.User == nil || session.User.Email != "ada@x.com" {
			t.Fatalf("expected ada@x.com session, got %+v", session.User)
		}
		if session.User.Password != "" {
			t.Error("password must not appear in responses")
		}

		doJSON(t, router, http.MethodPost, "/api/auth/logout", nil)

		rr = doJSON(t, router, http.MethodGet, "/api/auth/session", nil)
		if err := json.Unmarshal(rr.Body.Bytes(), &session); err != nil {
			t.Fatalf("bad session body: %v", err)
		}
		if session.User != nil {
			t.Errorf("expected no session after logout, got %+v", session.User)
		}
	})
}

func TestSongEndpointsRequireLogin(t *testing.T) {
	router := newTestRouter()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/songs"},
		{http.MethodPost, "/api/songs"},
		{http.MethodPut, "/api/songs/some-id"},
		{http.MethodDelete, "/api/songs/some-id"},
	} {
		rr := doJSON(t, router, tc.method, tc.path, map[string]any{})
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 with no session, got %d", tc.method, tc.path, rr.Code)
		}
	}
}

func TestSongEndpoints(t *testing.T) {
	type songsResponse struct {
		Songs []model.Song `json:"songs"`
	}
	type songResponse struct {
		Song model.Song `json:"song"`
	}

	t.Run("CreateAndList", func(t *testing.T) {
		router := newTestRouter()
		signup(t, router, "Ada", "ada@x.com", "secret")

		rr := doJSON(t, router, http.MethodPost, "/api/songs", map[string]any{
			"title": "Halo", "singer": "Beyoncé", "year": 2008,
			"album": "I Am... Sasha Fierce", "duration": 261,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("create returned %d: %s", rr.Code, rr.Body.String())
		}
		var created songResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
			t.Fatalf("bad create body: %v", err)
		}
		if created.Song.ID == "" || created.Song.OwnerEmail != "ada@x.com" {
			t.Fatalf("unexpected created song %+v", created.Song)
		}

		rr = doJSON(t, router, http.MethodGet, "/api/songs", nil)
		var listed songsResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
			t.Fatalf("bad list body: %v", err)
		}
		if len(listed.Songs) != 1 || listed.Songs[0].Title != "Halo" {
			t.Fatalf("unexpected list %+v", listed.Songs)
		}
	})

	t.Run("ValidationRejectsIncompleteSong", func(t *testing.T) {
		router := newTestRouter()
		signup(t, router, "Ada", "ada@x.com", "secret")

		for _, body := range []map[string]any{
			{"singer": "Beyoncé", "year": 2008},
			{"title": "Halo", "year": 2008},
			{"title": "Halo", "singer": "Beyoncé"},
			{"title": "Halo", "singer": "Beyoncé", "year": 2008, "duration": -1},
		} {
			rr := doJSON(t, router, http.MethodPost, "/api/songs", body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("body %v: expected 400, got %d", body, rr.Code)
			}
		}
	})

	t.Run("ListWithFilters", func(t *testing.T) {
		router := newTestRouter()
		signup(t, router, "Ada", "a@x.com", "secret")

		for _, s := range []map[string]any{
			{"title": "Halo", "singer": "Beyoncé", "year": 2008},
			{"title": "Hello", "singer": "Adele", "year": 2015},
		} {
			if rr := doJSON(t, router, http.MethodPost, "/api/songs", s); rr.Code != http.StatusCreated {
				t.Fatalf("create returned %d", rr.Code)
			}
		}

		rr := doJSON(t, router, http.MethodGet, "/api/songs?letter=H&yearMin=2000&yearMax=2024", nil)
		var listed songsResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
			t.Fatalf("bad list body: %v", err)
		}
		if len(listed.Songs) != 2 {
			t.Fatalf("expected both songs, got %+v", listed.Songs)
		}

		rr = doJSON(t, router, http.MethodGet, "/api/songs?letter=H&yearMin=2000&yearMax=2024&search=beyon", nil)
		if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
			t.Fatalf("bad list body: %v", err)
		}
		if len(listed.Songs) != 1 || listed.Songs[0].Title != "Halo" {
			t.Fatalf("expected only Halo, got %+v", listed.Songs)
		}
	})

	t.Run("OwnerPartition", func(t *testing.T) {
		router := newTestRouter()
		signup(t, router, "Ada", "a@x.com", "secret")
		if rr := doJSON(t, router, http.MethodPost, "/api/songs", map[string]any{
			"title": "Halo", "singer": "Beyoncé", "year": 2008,
		}); rr.Code != http.StatusCreated {
			t.Fatalf("create returned %d", rr.Code)
		}

		// Second account on the same instance sees an empty library.
		signup(t, router, "Bob", "b@x.com", "secret")
		rr := doJSON(t, router, http.MethodGet, "/api/songs", nil)
		var listed songsResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
			t.Fatalf("bad list body: %v", err)
		}
		if len(listed.Songs) != 0 {
			t.Fatalf("b@x.com must not see a@x.com songs, got %+v", listed.Songs)
		}
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		router := newTestRouter()
		signup(t, router, "Ada", "ada@x.com", "secret")

		rr := doJSON(t, router, http.MethodPost, "/api/songs", map[string]any{
			"title": "Halo", "singer": "Beyoncé", "year": 2008,
		})
		var created songResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
			t.Fatalf("bad create body: %v", err)
		}
		id := created.Song.ID

		rr = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/songs/%s", id), map[string]any{
			"title": "Halo", "singer": "Beyoncé", "year": 2009, "album": "I Am... Sasha Fierce",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("update returned %d: %s", rr.Code, rr.Body.String())
		}

		rr = doJSON(t, router, http.MethodPut, "/api/songs/does-not-exist", map[string]any{
			"title": "X", "singer": "Y", "year": 2000,
		})
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown id, got %d", rr.Code)
		}

		rr = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/songs/%s", id), nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("delete returned %d", rr.Code)
		}

		// Deleting again is still a success.
		rr = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/songs/%s", id), nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("repeated delete returned %d", rr.Code)
		}

		rr = doJSON(t, router, http.MethodGet, "/api/songs", nil)
		var listed songsResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
			t.Fatalf("bad list body: %v", err)
		}
		if len(listed.Songs) != 0 {
			t.Fatalf("library should be empty, got %+v", listed.Songs)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	rr := doJSON(t, newTestRouter(), http.MethodGet, "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("health returned %d", rr.Code)
	}
}
