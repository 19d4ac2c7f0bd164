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

func RegisterBoostRoutes(router chi.Router, db *sql.DB, cfg *config.Config, s3Config *config.S3Config) {
	log.Println("Registering boost routes...")

	svc, reconciler := newBoostService(db, cfg)
	boostRepo := repository.NewBoostRequestRepository(db)

	boostHandler := handlers.NewBoostHandler(svc, boostRepo, reconciler)
	pricingHandler := handlers.NewPricingHandler(svc, reconciler)
	proofHandler := handlers.NewPaymentProofHandler(boostRepo, s3Config)

	router.Route("/boosts", func(r chi.Router) {
		// Pricing preview is public so storefront pages can quote
		// before the seller logs in.
		r.Get("/pricing/preview", pricingHandler.PreviewPrice)

		RegisterEngagementRoutes(r, db)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Use(middleware.RequireRole(
				string(models.RoleSeller), string(models.RoleShop),
			))

			r.Post("/", boostHandler.SubmitBoost)
			r.Get("/mine", boostHandler.ListMyBoosts)
			r.Post("/{id}/payment-proof", proofHandler.UploadProof)
		})
	})
}
