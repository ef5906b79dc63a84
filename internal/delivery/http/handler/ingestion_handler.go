package handler

import (
	"strings"

	"resume-matcher/internal/delivery/http/dto"
	"resume-matcher/internal/delivery/http/middleware"
	"resume-matcher/internal/pkg/response"
	"resume-matcher/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type IngestionHandler struct {
	uc usecase.IngestionUsecase
}

func NewIngestionHandler(uc usecase.IngestionUsecase) *IngestionHandler {
	return &IngestionHandler{uc: uc}
}

func (h *IngestionHandler) RegisterRoutes(r fiber.Router) {
	if h == nil || r == nil {
		return
	}
	grp := r.Group("/ingestion")
	grp.Post("/runs", h.HandleTrigger)
	grp.Get("/status", h.HandleStatus)
}

// HandleTrigger accepts an empty body or {"resume_run_id": "..."}.
func (h *IngestionHandler) HandleTrigger(c fiber.Ctx) error {
	var req dto.TriggerIngestionRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
		}
	}
	resume := strings.TrimSpace(req.ResumeRunID)

	runID, err := h.uc.Trigger(c.Context(), resume)
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Accepted(c, dto.TriggerIngestionResponse{RunID: runID, Resumed: resume != ""})
}

func (h *IngestionHandler) HandleStatus(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "success", h.uc.Status(c.Context()))
}
