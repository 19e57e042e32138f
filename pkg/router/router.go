package router

import (
	"fmt"
	"net/http"

	"github.com/agreementchain/agreements/internal/app"
	"github.com/agreementchain/agreements/internal/auth"
	"github.com/agreementchain/agreements/internal/conditions"
	"github.com/agreementchain/agreements/internal/contracts"
	"github.com/agreementchain/agreements/internal/dashboard"
	"github.com/agreementchain/agreements/internal/requests"
	"github.com/agreementchain/agreements/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	app *app.App
}

func NewServer(a *app.App) *Router {
	return &Router{app: a}
}

// Handler builds the routes. Reads are public, writes need the API key.
func (r *Router) Handler() http.Handler {
	cr := chi.NewRouter()

	a := auth.New(r.app.Config.APIKEY)

	// configure middleware
	cr.Use(middleware.RequestID)
	cr.Use(middleware.Logger)

	// configure custom middleware
	cr.Use(OptionsMiddleware)
	cr.Use(HealthMiddleware)
	cr.Use(RequestSizeLimitMiddleware(1 << 20)) // Limit request bodies to 1MB
	cr.Use(middleware.Compress(9))

	// instantiate handlers
	v := version.NewService(r.app.ChainID.String())
	dash := dashboard.NewService(r.app)
	con := contracts.NewService(r.app)
	req := requests.NewService(r.app)
	cond := conditions.NewService(r.app)

	// configure routes
	cr.Get("/version", v.Current)
	cr.Handle("/metrics", promhttp.HandlerFor(r.app.Registry, promhttp.HandlerOpts{}))

	cr.Get("/dashboard/{wallet_address}", dash.Get)

	cr.With(a.AuthMiddleware).Post("/agreements", con.Create)

	cr.Route("/contracts/{contract_address}", func(cr chi.Router) {
		cr.Get("/", con.Get)

		cr.Route("/requests", func(cr chi.Router) {
			cr.Get("/", req.List)
			cr.Get("/{action_id}", req.Get)
			cr.With(a.AuthMiddleware).Post("/{action_id}/vote", req.Vote)
		})

		cr.Group(func(cr chi.Router) {
			cr.Use(a.AuthMiddleware)

			cr.Post("/stakeholders", con.AddStakeholder)
			cr.Delete("/stakeholders/{address}", con.RemoveStakeholder)
			cr.Post("/state", con.ChangeState)
		})

		cr.Route("/conditions", func(cr chi.Router) {
			cr.Get("/pending", cond.Pending)
			cr.Get("/{key}/voters", cond.Voters)

			cr.Group(func(cr chi.Router) {
				cr.Use(a.AuthMiddleware)

				cr.Post("/", cond.Add)
				cr.Delete("/{key}", cond.Remove)
				cr.Post("/{condition_id}/vote", cond.Vote)
			})
		})
	})

	return cr
}

// Start serves the routes on port
func (r *Router) Start(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%v", port), r.Handler())
}
