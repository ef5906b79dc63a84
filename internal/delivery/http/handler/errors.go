package handler

import (
	"context"
	"errors"

	"resume-matcher/internal/delivery/http/middleware"
	"resume-matcher/internal/pkg/response"
	"resume-matcher/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const messageStoreUnavailable = "match store unavailable, retry later"

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrRunInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Ranking run already in progress", nil, err)
	case errors.Is(err, usecase.ErrSourceUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, messageStoreUnavailable, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
