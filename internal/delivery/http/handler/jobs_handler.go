package handler

import (
	"resume-matcher/internal/delivery/http/dto"
	"resume-matcher/internal/pkg/response"
	"resume-matcher/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc usecase.JobListUsecase
}

func NewJobsHandler(uc usecase.JobListUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if h == nil || r == nil {
		return
	}
	r.Get("/jobs", h.HandleListJobs)
	r.Get("/categories", h.HandleListCategories)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	items, err := h.uc.ListJobs(c.Context(), c.Query("category"))
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.JobSummaryResponse, 0, len(items))
	for _, it := range items {
		skills := it.TopSkills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, dto.JobSummaryResponse{
			JobID:        it.ID,
			Title:        it.Title,
			DisplayTitle: it.DisplayTitle,
			Category:     it.Category,
			Description:  it.Description,
			TopSkills:    skills,
		})
	}

	return response.Success(c, fiber.StatusOK, "success", out)
}

func (h *JobsHandler) HandleListCategories(c fiber.Ctx) error {
	cats, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.CategoriesResponse{Categories: cats})
}
