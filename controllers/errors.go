package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/factory-app/repository"
	"github.com/yeremiapane/factory-app/services"
	"github.com/yeremiapane/factory-app/utils"
)

// respondServiceError maps planning and store errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderLineNotFound),
		errors.Is(err, services.ErrMachineNotFound),
		errors.Is(err, repository.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrMachineNotActive),
		errors.Is(err, services.ErrOrderLineClosed),
		errors.Is(err, services.ErrInvalidEfficiency):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, services.ErrInvalidWeek):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrStalePlan),
		errors.Is(err, repository.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrServiceUnavailable):
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("Store unavailable")
		utils.RespondError(c, http.StatusServiceUnavailable, services.ErrServiceUnavailable)
	default:
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// respondStoreError answers a failed direct store call with 503.
func respondStoreError(c *gin.Context, err error) {
	respondServiceError(c, fmt.Errorf("%w: %w", services.ErrServiceUnavailable, err))
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}
