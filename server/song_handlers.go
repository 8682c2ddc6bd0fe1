package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tuneshelf/logger"
	"tuneshelf/model"
	"tuneshelf/store"

	"github.com/gorilla/mux"
)

// SongRequest represents the create/update request body. The owner is
// never taken from the body; it is always the signed-in account.
type SongRequest struct {
	Title         string  `json:"title"`
	Singer        string  `json:"singer"`
	Album         string  `json:"album"`
	Year          int     `json:"year"`
	Duration      float64 `json:"duration"`
	AudioURL      string  `json:"audio_url"`
	CoverImageURL string  `json:"cover_image_url"`
}

func (req SongRequest) validate() string {
	if req.Title == "" {
		return "Title is required"
	}
	if req.Singer == "" {
		return "Singer is required"
	}
	if req.Year == 0 {
		return "Year is required"
	}
	if req.Duration < 0 {
		return "Duration cannot be negative"
	}
	return ""
}

func (req SongRequest) song() model.Song {
	return model.Song{
		Title:         req.Title,
		Singer:        req.Singer,
		Album:         req.Album,
		Year:          req.Year,
		Duration:      req.Duration,
		AudioURL:      req.AudioURL,
		CoverImageURL: req.CoverImageURL,
	}
}

// filterFromQuery builds the song filter from list query parameters.
// Absent parameters fall back to the defaults (no text constraint, full
// year range).
func filterFromQuery(r *http.Request) store.Filter {
	f := store.DefaultFilter()
	q := r.URL.Query()

	f.Search = q.Get("search")
	f.Singer = q.Get("singer")
	f.Letter = q.Get("letter")
	if v, err := strconv.Atoi(q.Get("yearMin")); err == nil {
		f.YearMin = v
	}
	if v, err := strconv.Atoi(q.Get("yearMax")); err == nil {
		f.YearMax = v
	}
	return f
}

// ListSongsHandler returns the signed-in account's songs, narrowed by
// the filter query parameters.
func (h *APIHandler) ListSongsHandler(w http.ResponseWriter, r *http.Request, user model.User) {
	songs, err := h.library.LoadForOwner(r.Context(), user.Email)
	if err != nil {
		logger.Error("failed to load songs", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to load songs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"songs": filterFromQuery(r).Apply(songs),
	})
}

// CreateSongHandler adds a song to the signed-in account's library.
func (h *APIHandler) CreateSongHandler(w http.ResponseWriter, r *http.Request, user model.User) {
	var req SongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	song, err := h.library.Create(r.Context(), req.song(), user.Email)
	if err != nil {
		logger.Error("failed to create song", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to create song")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"song":    song,
	})
}

// UpdateSongHandler replaces the song with the path identifier.
func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request, user model.User) {
	id := mux.Vars(r)["id"]

	var req SongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	song := req.song()
	song.ID = id
	song.OwnerEmail = user.Email

	if err := h.library.Update(r.Context(), song); err != nil {
		if errors.Is(err, store.ErrSongNotFound) {
			writeError(w, http.StatusNotFound, "Song not found")
			return
		}
		logger.Error("failed to update song", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to update song")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"song":    song,
	})
}

// DeleteSongHandler removes the song with the path identifier. Deleting
// a song that is already gone succeeds quietly.
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request, user model.User) {
	id := mux.Vars(r)["id"]

	if err := h.library.Delete(r.Context(), id, user.Email); err != nil {
		logger.Error("failed to delete song", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete song")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
