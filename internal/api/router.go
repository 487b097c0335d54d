package api

import (
	"log/slog"
	"net/http"
	"time"

	"proposal-engine/internal/api/handler"
	mw "proposal-engine/internal/api/middleware"
	"proposal-engine/internal/application"
	"proposal-engine/internal/config"

	_ "proposal-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(proposalService application.ProposalService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupProposalRoutes(router, proposalService, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupProposalRoutes(router *chi.Mux, svc application.ProposalService, cfg *config.Config, logger *slog.Logger) {
	proposalHandler := handler.NewProposalHandler(svc, logger)
	authHandler := handler.NewAuthHandler(*cfg, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})

	router.Route("/proposals", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", proposalHandler.CreateProposal)
		r.Get("/", proposalHandler.ListProposals)
		r.Get("/metrics", proposalHandler.GetDashboardMetrics)
		r.Get("/queue", proposalHandler.ListPendingAnalysis)
		r.Get("/by-cpf/{cpf}", proposalHandler.ListByCPF)
		r.Get("/by-store/{storeID}", proposalHandler.ListByStore)

		r.Route("/{proposalID}", func(r chi.Router) {
			r.Get("/", proposalHandler.GetProposal)
			r.Post("/submit", proposalHandler.SubmitProposal)
			r.Post("/analyze", proposalHandler.AnalyzeProposal)
			r.Post("/approve", proposalHandler.ApproveProposal)
			r.Post("/reject", proposalHandler.RejectProposal)
			r.Post("/pending", proposalHandler.SetPending)
			r.Post("/resubmit", proposalHandler.ResubmitProposal)
			r.Post("/contract", proposalHandler.GenerateContract)
			r.Post("/signature/send", proposalHandler.SendForSignature)
			r.Post("/signature/confirm", proposalHandler.ConfirmSignature)
			r.Post("/formalize", proposalHandler.FormalizeProposal)
			r.Post("/payment", proposalHandler.MarkProposalPaid)
			r.Post("/cancel", proposalHandler.CancelProposal)
			r.Post("/suspend", proposalHandler.SuspendProposal)
			r.Post("/reactivate", proposalHandler.ReactivateProposal)
		})
	})
}
