package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/financial-planner-server/docs"
	"github.com/rogerio-castellano/financial-planner-server/internal/auth"
	"github.com/rogerio-castellano/financial-planner-server/internal/http/handlers"
	mw "github.com/rogerio-castellano/financial-planner-server/internal/http/middleware"
	rl "github.com/rogerio-castellano/financial-planner-server/internal/http/rate_limiter"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
)

type Dependencies struct {
	Server     *handlers.Server
	Verifier   *auth.Verifier
	Visitors   *rl.Visitors
	Logger     *log.Logger
	CORSOrigin string
}

func NewRouter(d Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RateLimit(d.Visitors))

		r.Get("/health", d.Server.HealthHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(d.Verifier))

			r.Get("/link_token", d.Server.LinkTokenHandler)
			r.Post("/set_access_token", d.Server.SetAccessTokenHandler)
			r.Delete("/item", d.Server.UnlinkHandler)
			r.Get("/BankAccounts", d.Server.BankAccountsHandler)
			r.Get("/holdings", d.Server.HoldingsHandler)
			r.Get("/cashflow", d.Server.CashFlowHandler)
		})
	})

	return r
}
