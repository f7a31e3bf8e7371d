package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Post("/chat", apiHandler.ChatHandler)

		r.Post("/documents", apiHandler.UploadDocumentHandler)
		r.Get("/documents", apiHandler.ListDocumentsHandler)
		r.Get("/documents/{documentID}", apiHandler.GetDocumentHandler)
		r.Delete("/documents/{documentID}", apiHandler.DeleteDocumentHandler)

		r.Post("/sessions", apiHandler.CreateSessionHandler)
		r.Delete("/sessions/{sessionID}", apiHandler.DeleteSessionHandler)
	})

	return r
}
