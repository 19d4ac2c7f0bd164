package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"boostapi/internal/config"
	"boostapi/internal/handlers"
	"boostapi/internal/repository"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(repository.NewUserRepository(db), cfg)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})
}
