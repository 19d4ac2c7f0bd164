package routes

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boostapi/internal/config"
	"boostapi/internal/repository"
	"boostapi/internal/services"
)

func SetupRoutes(db *sql.DB, cfg *config.Config, s3Config *config.S3Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"service": "boost-engine",
			"message": "Boost campaign pricing and priority API",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		type dbStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}
		resp := struct {
			Status string   `json:"status"`
			DB     dbStatus `json:"db"`
		}{Status: "ok", DB: dbStatus{Status: "ok"}}

		code := http.StatusOK
		if err := db.PingContext(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.DB = dbStatus{Status: "down", Error: err.Error()}
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(resp)
	})

	r.Handle("/metrics", promhttp.Handler())

	RegisterSwaggerRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		RegisterAuthRoutes(r, db, cfg)
		RegisterBoostRoutes(r, db, cfg, s3Config)
		RegisterAdminRoutes(r, db, cfg)
	})

	return r
}

// newBoostService wires the repositories and supporting services shared by
// the seller and admin route groups.
func newBoostService(db *sql.DB, cfg *config.Config) (*services.BoostService, *services.Reconciler) {
	boostRepo := repository.NewBoostRequestRepository(db)
	ruleRepo := repository.NewPricingRuleRepository(db)
	seasonalRepo := repository.NewSeasonalCampaignRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)

	reconciler := services.NewReconciler(boostRepo, productRepo, userRepo)

	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.NotificationsEnabled && cfg.SMTPHost != "" {
		notifier = &services.SMTPNotifier{
			Host:   cfg.SMTPHost,
			Port:   cfg.SMTPPort,
			User:   cfg.SMTPUser,
			Pass:   cfg.SMTPPassword,
			From:   cfg.SMTPFrom,
			UseTLS: cfg.SMTPUseTLS,
		}
	}

	svc := services.NewBoostService(
		boostRepo,
		ruleRepo,
		seasonalRepo,
		productRepo,
		userRepo,
		reconciler,
		notifier,
		cfg.SupportedCities,
	)

	return svc, reconciler
}
