package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/ascend-backend/internal/handlers"
	"github.com/GregMSThompson/ascend-backend/internal/metrics"
	"github.com/GregMSThompson/ascend-backend/internal/middleware"
)

type loggerMiddleware interface {
	LoggerMiddleware(next http.Handler) http.Handler
}

func NewRouter(deps *handlers.Deps, mw *middleware.Middleware, lm loggerMiddleware, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", m.Handler())

	ah := handlers.NewAuthHandlers(deps)
	r.Post("/auth/login", ah.Login)
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/password-reset", ah.PasswordReset)

	r.Group(func(r chi.Router) {
		r.Use(mw.FirebaseAuth)
		r.Post("/auth/logout", ah.Logout)

		r.Group(func(r chi.Router) {
			r.Use(mw.Session)

			r.Get("/me", handlers.NewMeHandlers(deps).GetMe)
			r.Get("/dashboard", handlers.NewDashboardHandlers(deps).GetDashboard)
			r.Get("/forms/{kind}/defaults", handlers.NewFormHandlers(deps).GetDefaults)

			r.Mount("/transactions", handlers.NewTransactionHandlers(deps).TransactionRoutes())
			r.Mount("/clients", handlers.NewClientHandlers(deps).ClientRoutes())
			r.Mount("/tasks", handlers.NewTaskHandlers(deps).TaskRoutes())
			r.Mount("/team", handlers.NewTeamHandlers(deps).TeamRoutes())
			r.Mount("/settings", handlers.NewSettingsHandlers(deps).SettingsRoutes())
		})
	})
	return r
}
