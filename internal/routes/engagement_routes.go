package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"boostapi/internal/handlers"
	"boostapi/internal/repository"
	"boostapi/internal/services"
)

// RegisterEngagementRoutes mounts the unauthenticated tracking and priority
// resolution endpoints consumed by the storefront. The router passed in is
// the /boosts subtree.
func RegisterEngagementRoutes(r chi.Router, db *sql.DB) {
	boostRepo := repository.NewBoostRequestRepository(db)
	resolver := services.NewPriorityResolver(boostRepo)
	engagementHandler := handlers.NewEngagementHandler(boostRepo, resolver)

	r.Post("/impressions", engagementHandler.TrackImpressions)
	r.Post("/{id}/click", engagementHandler.TrackClick)
	r.Post("/resolve", engagementHandler.ResolvePriorities)
}
