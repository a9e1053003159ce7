// Package http exposes the REST endpoints of the development story API
// server.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/dinostories/internal/server/storage"
)

// Handler bundles the dependencies of the HTTP endpoints.
type Handler struct {
	storage   *storage.Storage
	log       *zap.Logger
	jwtSecret string
	tokenTTL  time.Duration
	photoDir  string
}

// NewHandler creates a Handler.
func NewHandler(st *storage.Storage, log *zap.Logger, jwtSecret string, tokenTTL time.Duration, photoDir string) *Handler {
	return &Handler{
		storage:   st,
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		photoDir:  photoDir,
	}
}

// Routes builds the router of the story API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.requestLogger)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Get("/stories", h.ListStories)
		r.Get("/stories/{id}", h.GetStory)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/stories", h.CreateStory)
		})
	})

	fs := http.StripPrefix("/photos/", http.FileServer(http.Dir(h.photoDir)))
	r.Get("/photos/*", fs.ServeHTTP)

	return r
}
