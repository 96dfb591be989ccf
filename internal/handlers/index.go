package handlers

import (
	"fmt"
	"net/http"
	"time"

	"book-tracker/internal/library"
	"book-tracker/internal/models"
)

// IndexHandler obsługuje stronę główną i zapowiedzi
type IndexHandler struct {
	lib *library.Library
}

// NewIndexHandler tworzy nowy handler strony głównej
func NewIndexHandler(lib *library.Library) *IndexHandler {
	return &IndexHandler{lib: lib}
}

// ServeHTTP obsługuje żądanie GET /
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.lib.Home())
}

// Refresh wczytuje bibliotekę ponownie z bazy (POST /refresh)
func (h *IndexHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.lib.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.lib.Home())
}

// Upcoming zwraca przyszłe premiery z odliczaniem (GET /upcoming)
func (h *IndexHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.lib.Upcoming())
}

// AddUpcoming zapisuje zapowiedź (POST /upcoming); data jako RFC 3339 albo RRRR-MM-DD
func (h *IndexHandler) AddUpcoming(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Author      string `json:"author"`
		Series      string `json:"series"`
		ReleaseDate string `json:"releaseDate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u := models.UpcomingBook{Title: req.Title, Author: req.Author, Series: req.Series}
	if req.ReleaseDate != "" {
		date, err := parseDate(req.ReleaseDate)
		if err != nil {
			writeError(w, err)
			return
		}
		u.ReleaseDate = date
	}

	added, err := h.lib.AddUpcoming(r.Context(), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: nieprawidłowa data %q", errBadRequest, s)
	}
	return t, nil
}
