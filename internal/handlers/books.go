package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"book-tracker/internal/library"
	"book-tracker/internal/lifecycle"
	"book-tracker/internal/models"
)

// BooksHandler obsługuje operacje na książkach
type BooksHandler struct {
	lib *library.Library
}

// NewBooksHandler tworzy nowy handler dla książek
func NewBooksHandler(lib *library.Library) *BooksHandler {
	return &BooksHandler{lib: lib}
}

// List zwraca listę książek, opcjonalnie z widoku (GET /books?view=)
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.lib.View(r.URL.Query().Get("view"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// Show zwraca szczegóły książki (GET /books/{id})
func (h *BooksHandler) Show(w http.ResponseWriter, r *http.Request) {
	book, err := h.lib.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// addRequest to ciało POST /books
type addRequest struct {
	Item   models.CatalogItem `json:"item"`
	Genre  string             `json:"genre"`
	Format string             `json:"format"`
	Status string             `json:"status"`
}

// Add dodaje książkę wybraną z wyników wyszukiwania (POST /books)
func (h *BooksHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	book, err := h.lib.Add(r.Context(), req.Item, lifecycle.AddChoice{
		Genre:  req.Genre,
		Format: req.Format,
		Status: models.ParseStatus(req.Status),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// Edit zapisuje formularz edycji (PUT /books/{id})
func (h *BooksHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var form lifecycle.EditForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, err)
		return
	}

	book, err := h.lib.Edit(r.Context(), chi.URLParam(r, "id"), form)
	respond(w, book, err)
}

// Delete usuwa książkę (DELETE /books/{id})
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.lib.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleRead przełącza stan przeczytania (POST /books/{id}/read)
func (h *BooksHandler) ToggleRead(w http.ResponseWriter, r *http.Request) {
	book, err := h.lib.ToggleRead(r.Context(), chi.URLParam(r, "id"))
	respond(w, book, err)
}

// StartReading oznacza rozpoczęcie czytania (POST /books/{id}/start)
func (h *BooksHandler) StartReading(w http.ResponseWriter, r *http.Request) {
	book, err := h.lib.StartReading(r.Context(), chi.URLParam(r, "id"))
	respond(w, book, err)
}

// AdvanceToTbr przenosi książkę do kolejki (POST /books/{id}/tbr)
func (h *BooksHandler) AdvanceToTbr(w http.ResponseWriter, r *http.Request) {
	book, err := h.lib.AdvanceToTbr(r.Context(), chi.URLParam(r, "id"))
	respond(w, book, err)
}

// SetStatus ustawia status (POST /books/{id}/status)
func (h *BooksHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	status, ok := models.LookupStatus(req.Status)
	if !ok {
		writeError(w, fmt.Errorf("%w: nieznany status %q", lifecycle.ErrValidation, req.Status))
		return
	}

	book, err := h.lib.SetStatus(r.Context(), chi.URLParam(r, "id"), status)
	respond(w, book, err)
}

// ToggleLoan pożycza albo odbiera książkę (POST /books/{id}/loan); 204 gdy nic nie zmieniono
func (h *BooksHandler) ToggleLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Borrower string `json:"borrower"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	book, applied, err := h.lib.ToggleLoan(r.Context(), chi.URLParam(r, "id"), req.Borrower)
	if err != nil {
		writeError(w, err)
		return
	}
	if !applied {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// Rate zapisuje ocenę i recenzję (POST /books/{id}/rate)
func (h *BooksHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stars  int    `json:"stars"`
		Review string `json:"review"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	book, err := h.lib.Rate(r.Context(), chi.URLParam(r, "id"), req.Stars, req.Review)
	respond(w, book, err)
}

func respond(w http.ResponseWriter, book *models.Book, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}
