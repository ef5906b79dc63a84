package routes

import (
	"net/http"

	"resume-matcher/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// RouteRegistrar is satisfied by every handler and by the websocket endpoint.
type RouteRegistrar interface {
	RegisterRoutes(r fiber.Router)
}

type Registry struct {
	Health     *handler.HealthHandler
	Jobs       *handler.JobsHandler
	Candidates *handler.CandidatesHandler
	Ingestion  *handler.IngestionHandler
	WS         RouteRegistrar
	Metrics    http.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if r == nil || app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)

	if r.WS != nil {
		r.WS.RegisterRoutes(app)
	}
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.Health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.Jobs, r.Candidates, r.Ingestion)
}
