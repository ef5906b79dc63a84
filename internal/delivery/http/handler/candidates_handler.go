package handler

import (
	"strings"

	"resume-matcher/internal/delivery/http/dto"
	"resume-matcher/internal/pkg/response"
	"resume-matcher/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CandidatesHandler struct {
	uc usecase.CandidateListUsecase
}

func NewCandidatesHandler(uc usecase.CandidateListUsecase) *CandidatesHandler {
	return &CandidatesHandler{uc: uc}
}

func (h *CandidatesHandler) RegisterRoutes(r fiber.Router) {
	if h == nil || r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/:job_id/candidates", h.HandleListCandidates)
}

func (h *CandidatesHandler) HandleListCandidates(c fiber.Ctx) error {
	jobID := strings.TrimSpace(c.Params("job_id"))

	views, err := h.uc.ListCandidates(c.Context(), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := dto.JobCandidatesResponse{
		JobID:      jobID,
		Candidates: make([]dto.CandidateMatchResponse, 0, len(views)),
	}
	for _, v := range views {
		skills := v.Skills
		if skills == nil {
			skills = []string{}
		}
		out.Candidates = append(out.Candidates, dto.CandidateMatchResponse{
			Rank:            v.Rank,
			CandidateID:     v.CandidateID,
			DisplayName:     v.DisplayName,
			CurrentRole:     v.CurrentRole,
			YearsExperience: v.YearsExperience,
			Skills:          skills,
			MatchScore:      v.Score,
			ResumeFilePath:  v.ResumePath,
			ResumeURL:       v.ResumeURL,
			ResumeLocation:  v.ResumeLocation,
		})
	}

	return response.Success(c, fiber.StatusOK, "success", out)
}
