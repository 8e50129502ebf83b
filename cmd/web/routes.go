package main

import (
	"context"
	"net/http"

	"github.com/AdamBeresnev/sabo-arena/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/markbates/goth/gothic"
)

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Read only bracket JSON for scoreboards and overlays on other origins
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			MaxAge:         300,
		}))
		r.Get("/tournaments/{id}", app.tournamentJSON)
	})

	r.Group(func(r chi.Router) {
		r.Use(app.sessionManager.LoadAndSave)
		r.Use(middleware.LoadAuthenticatedUser(app.sessionManager, app.userStore))

		fileServer := http.FileServer(http.Dir("./static"))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

		r.Get("/login", app.loginPage)
		r.Post("/auth/guest", app.guestLogin)
		r.Post("/logout", app.logout)

		r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
			provider := chi.URLParam(r, "provider")
			r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

			gothic.BeginAuthHandler(w, r)
		})
		r.Get("/auth/{provider}/callback", app.authCallback)

		r.Get("/tournaments/{id}", app.tournamentPage)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", app.index)
			r.Get("/tournaments/create", app.createTournamentPage)
			r.Post("/tournaments", app.createTournament)
			r.Post("/tournaments/{id}/resolve", app.resolveTournament)
			r.Post("/tournaments/{id}/matches/{round}/{match}/result", app.recordResult)
		})
	})

	return r
}
