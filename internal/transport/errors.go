package transport

import (
	"errors"
	"net/http"

	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"go.uber.org/zap"
)

// respondWithServiceError maps a service or repository error onto the HTTP error envelope
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, debug bool) {
	var validationErrors middleware.ValidationErrors

	switch {
	case errors.As(err, &validationErrors):
		middleware.RespondWithValidationErrors(w, validationErrors)
	case errors.Is(err, middleware.ErrInvalidBody):
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, service.ErrInvalidID):
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, service.ErrInvalidOrderBy):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrCategoryAlreadyExists):
		middleware.RespondWithError(w, http.StatusBadRequest, "Category already exists")
	case errors.Is(err, service.ErrCategoryInUse):
		middleware.RespondWithError(w, http.StatusConflict, "Category still has products")
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithInternalError(w, err, debug)
		return
	}

	logger.Debug("Request rejected", zap.Error(err))
}

// MessageResponse is the body of successful deletions
type MessageResponse struct {
	Message string `json:"message"`
}
