package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/horizon/internal/httpserver/deps"
	"github.com/MrSnakeDoc/horizon/internal/httpserver/handlers"
)

func init() { Register(registerContests) }

func registerContests(r chi.Router, d deps.Deps) {
	r.Route("/api/contests", func(r chi.Router) {
		r.Get("/", handlers.Contests(d))
		r.Get("/suggest", handlers.Suggest(d))
		r.Get("/{id}", handlers.Contest(d))
		r.Put("/{id}/solution", handlers.PutSolution(d))
		r.Delete("/{id}/solution", handlers.DeleteSolution(d))
	})
}
