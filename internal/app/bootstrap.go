package app

import (
	"context"
	"fmt"
	"strings"

	"resume-matcher/internal/config"
	"resume-matcher/internal/delivery/http/handler"
	"resume-matcher/internal/delivery/http/middleware"
	"resume-matcher/internal/delivery/http/routes"
	"resume-matcher/internal/pipeline"
	"resume-matcher/internal/usecase"
	"resume-matcher/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber       *fiber.App
	Container   *Container
	Coordinator *pipeline.Coordinator
	Hub         *ws.Hub
}

// New wires the viewer API, websocket push and background ingestion over c. ctx bounds the
// websocket hub and every background run.
func New(ctx context.Context, c *Container) *App {
	log := c.Logger

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	coord := pipeline.NewCoordinator(ctx, c.Pipeline(ws.NewNotifier(hub)), c.DefaultParams(), log)

	var dbPinger usecase.Pinger
	if c.DB != nil {
		dbPinger = c.DB
	}

	reg := &routes.Registry{
		Health:     handler.NewHealthHandler(usecase.NewHealthUsecase(dbPinger, c.Redis)),
		Jobs:       handler.NewJobsHandler(usecase.NewJobListUsecase(c.Store, c.Redis, log)),
		Candidates: handler.NewCandidatesHandler(usecase.NewCandidateListUsecase(c.Store, c.Redis, log)),
		Ingestion:  handler.NewIngestionHandler(usecase.NewIngestionUsecase(coord)),
		WS:         ws.NewHandler(hub, log),
		Metrics:    c.Metrics.Handler(),
	}

	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})
	registerGlobalMiddleware(f, log)
	reg.Register(f)

	return &App{Fiber: f, Container: c, Coordinator: coord, Hub: hub}
}

func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	app := New(ctx, c)
	cleanup := func() error {
		app.Coordinator.Wait()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
