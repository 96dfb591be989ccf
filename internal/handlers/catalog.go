package handlers

import (
	"fmt"
	"net"
	"net/http"

	"book-tracker/internal/catalog"
	"book-tracker/internal/library"
	"book-tracker/internal/middleware"
)

// CatalogHandler obsługuje wyszukiwanie w katalogu
type CatalogHandler struct {
	lib *library.Library
}

// NewCatalogHandler tworzy handler wyszukiwania
func NewCatalogHandler(lib *library.Library) *CatalogHandler {
	return &CatalogHandler{lib: lib}
}

// Search wyszukuje po tytule lub autorze (GET /search?q=&mode=title|author).
// Zapytanie krótsze niż 3 znaki zwraca pustą listę bez odpytywania katalogu.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := h.lib.SearchFor(r.Context(), searchClient(r), q.Get("q"), catalog.ParseMode(q.Get("mode")))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errUpstream, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// searchClient wybiera klucz klienta: sesja, a bez niej adres (po RealIP)
func searchClient(r *http.Request) string {
	if sess := middleware.SessionFromContext(r.Context()); sess != nil {
		return "session:" + sess.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}
