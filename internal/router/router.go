// Package router sets up all HTTP routes and middleware chains for the
// PageSmith API. It organizes routes into public, authenticated and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/handlers"
	"pagesmith/internal/middleware"
	"pagesmith/internal/store"
	"pagesmith/internal/token"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	tokens *token.Manager,
	users *store.UserStore,
	auth *handlers.Auth,
	templates *handlers.Templates,
	pages *handlers.Pages,
	admin *handlers.Admin,
	actions *handlers.Actions,
	accounts *handlers.Users,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Auth — public.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Get("/verify", auth.Verify)
		r.Post("/login", auth.Login)
	})

	// Legacy page aggregate — no auth. Trusted internal callers only; see the
	// handler docs.
	r.Route("/pages", func(r chi.Router) {
		r.Post("/", pages.Create)
		r.Get("/", pages.List)
		r.Get("/{pageId}", pages.Get)
		r.Put("/{pageId}", pages.Update)
		r.Delete("/{pageId}", pages.Delete)

		r.Route("/{pageId}/sections", func(r chi.Router) {
			r.Post("/", pages.CreateSection)
			r.Get("/", pages.ListSections)
			r.Get("/{sectionId}", pages.GetSection)
			r.Put("/{sectionId}", pages.UpdateSection)
			r.Delete("/{sectionId}", pages.DeleteSection)

			r.Route("/{sectionId}/functions", func(r chi.Router) {
				r.Post("/", pages.CreateFunction)
				r.Get("/", pages.ListFunctions)
				r.Get("/{functionId}", pages.GetFunction)
				r.Put("/{functionId}", pages.UpdateFunction)
				r.Delete("/{functionId}", pages.DeleteFunction)
			})

			r.Route("/{sectionId}/data_entries", func(r chi.Router) {
				r.Post("/", pages.CreateDataEntry)
				r.Get("/", pages.ListDataEntries)
				r.Get("/{entryId}", pages.GetDataEntry)
				r.Put("/{entryId}", pages.UpdateDataEntry)
				r.Delete("/{entryId}", pages.DeleteDataEntry)
			})
		})
	})

	// Everything below requires a verified account.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, users))

		r.Route("/templates", func(r chi.Router) {
			// Literal routes first so "published" never matches {id}.
			r.Get("/published", templates.ListPublished)
			r.Get("/published/{id}/pages", templates.PublishedPagesView)
			r.Post("/published/{id}/copy", templates.CopyPublished)

			r.Post("/", templates.Create)
			r.Get("/", templates.List)
			r.Get("/{id}", templates.Get)
			r.Put("/{id}", templates.Update)
			r.Delete("/{id}", templates.Delete)
			r.Get("/{id}/pages", templates.PagesView)
			r.Patch("/{id}/request-publish", templates.RequestPublish)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/{userId}", accounts.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", accounts.List)
				r.Post("/", accounts.Create)
				r.Put("/{userId}", accounts.Update)
				r.Delete("/{userId}", accounts.Delete)
			})
		})

		// Admin moderation and audit surfaces.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/queue", admin.Queue)
				r.Get("/denial-reasons", admin.DenialReasons)
				r.Patch("/templates/{templateId}/approve", admin.Approve)
				r.Patch("/templates/{templateId}/reject", admin.Reject)
			})

			r.Route("/actions", func(r chi.Router) {
				r.Get("/", actions.List)
				r.Get("/{actionId}", actions.Get)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
