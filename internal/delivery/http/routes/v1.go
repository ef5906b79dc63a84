package routes

import (
	"resume-matcher/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, jobs *handler.JobsHandler, candidates *handler.CandidatesHandler, ingestion *handler.IngestionHandler) {
	if r == nil {
		return
	}

	jobs.RegisterRoutes(r)
	candidates.RegisterRoutes(r)
	ingestion.RegisterRoutes(r)
}
