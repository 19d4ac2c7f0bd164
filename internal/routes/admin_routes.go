package routes

import (
	"database/sql"
	"log"

	"github.com/go-chi/chi/v5"

	"boostapi/internal/config"
	"boostapi/internal/handlers"
	"boostapi/internal/middleware"
	"boostapi/internal/models"
	"boostapi/internal/repository"
)

func RegisterAdminRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	log.Println("Registering admin routes...")

	svc, reconciler := newBoostService(db, cfg)
	boostRepo := repository.NewBoostRequestRepository(db)

	adminHandler := handlers.NewAdminBoostHandler(svc, boostRepo, reconciler)
	ruleHandler := handlers.NewPricingRuleHandler(repository.NewPricingRuleRepository(db))
	campaignHandler := handlers.NewSeasonalCampaignHandler(repository.NewSeasonalCampaignRepository(db))

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Use(middleware.RequireRole(
			string(models.RoleAdmin), string(models.RoleManager),
		))

		r.Route("/boosts", func(r chi.Router) {
			r.Get("/", adminHandler.ListBoosts)
			r.Get("/summary", adminHandler.Summary)
			r.Post("/sweep", adminHandler.TriggerSweep)
			r.Patch("/{id}/status", adminHandler.TransitionBoost)
		})

		r.Route("/pricing-rules", func(r chi.Router) {
			r.Get("/", ruleHandler.ListRules)
			r.Post("/", ruleHandler.CreateRule)
			r.Get("/{id}", ruleHandler.GetRule)
			r.Put("/{id}", ruleHandler.UpdateRule)
		})

		r.Route("/seasonal-campaigns", func(r chi.Router) {
			r.Get("/", campaignHandler.ListCampaigns)
			r.Post("/", campaignHandler.CreateCampaign)
			r.Get("/{id}", campaignHandler.GetCampaign)
			r.Put("/{id}", campaignHandler.UpdateCampaign)
		})
	})
}
