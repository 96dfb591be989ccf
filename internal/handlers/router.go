package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"book-tracker/internal/library"
	"book-tracker/internal/middleware"
	"book-tracker/internal/session"
)

// Deps to zależności routera
type Deps struct {
	Library     *library.Library
	Identity    Identity // nil wyłącza logowanie
	Sessions    *session.Manager
	Logger      *zap.Logger
	RequireAuth bool // operacje zmieniające dane wymagają zalogowania

	// AllowRegistration otwiera /register dla anonimowych; bez tego konto zakłada tylko zalogowany użytkownik
	AllowRegistration bool
}

// NewRouter buduje router HTTP aplikacji
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Session(d.Sessions))
	if d.Identity != nil {
		r.Use(middleware.BearerAuth(d.Identity, d.Logger))
	}

	index := NewIndexHandler(d.Library)
	books := NewBooksHandler(d.Library)
	search := NewCatalogHandler(d.Library)
	auth := NewAuthHandler(d.Identity, d.Sessions, d.Logger)

	// Publiczne
	r.Get("/", index.ServeHTTP)
	r.Get("/books", books.List)
	r.Get("/books/{id}", books.Show)
	r.Get("/search", search.Search)
	r.Get("/upcoming", index.Upcoming)
	r.Post("/login", auth.Login)
	if d.AllowRegistration {
		r.Post("/register", auth.Register)
	} else {
		r.With(middleware.RequireUser).Post("/register", auth.Register)
	}
	r.Post("/logout", auth.Logout)
	r.Get("/me", auth.Me)

	// Zmieniające dane
	r.Group(func(r chi.Router) {
		if d.RequireAuth {
			r.Use(middleware.RequireUser)
		}

		r.Post("/refresh", index.Refresh)
		r.Post("/upcoming", index.AddUpcoming)

		r.Post("/books", books.Add)
		r.Put("/books/{id}", books.Edit)
		r.Delete("/books/{id}", books.Delete)
		r.Post("/books/{id}/read", books.ToggleRead)
		r.Post("/books/{id}/start", books.StartReading)
		r.Post("/books/{id}/tbr", books.AdvanceToTbr)
		r.Post("/books/{id}/status", books.SetStatus)
		r.Post("/books/{id}/loan", books.ToggleLoan)
		r.Post("/books/{id}/rate", books.Rate)
	})

	return r
}
