package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/clients"
	"storefront-admin-service/internal/middleware"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/repository"
	"storefront-admin-service/internal/services"
	"storefront-admin-service/internal/validation"
)

// sessionFrom reads the operator session stored by middleware.SessionAuth
func sessionFrom(c *gin.Context) services.Session {
	return services.Session{
		Token:      c.GetString(middleware.SessionTokenKey),
		OperatorID: c.GetString(middleware.OperatorIDKey),
		DraftOwner: c.GetString(middleware.DraftOwnerKey),
	}
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.SuccessResponse{
		Success: true,
		Data:    data,
	})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: &message,
	})
}

func respondBadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

// respondError maps a service error onto the admin API error envelope
func respondError(c *gin.Context, logger *logrus.Entry, err error) {
	status, body := errorResponse(err)
	entry := logger.WithFields(logrus.Fields{
		"path":       c.FullPath(),
		"status":     status,
		"code":       body.Error.Code,
		"request_id": c.GetString(middleware.RequestIDKey),
	})
	switch {
	case status >= http.StatusInternalServerError:
		entry.WithError(err).Error("Request failed")
	case body.Error.Code == validation.CodeValidation:
		entry.Debug(body.Error.Message)
	default:
		entry.WithError(err).Warn("Request rejected")
	}
	c.JSON(status, body)
}

func errorResponse(err error) (int, models.ErrorResponse) {
	resp := models.ErrorResponse{Success: false}

	if verr, ok := validation.AsError(err); ok {
		resp.Error = models.Error{Code: verr.Code, Message: verr.Message, Field: verr.Field}
		switch verr.Code {
		case validation.CodeEventLimit, validation.CodeDuplicateProduct:
			return http.StatusConflict, resp
		}
		return http.StatusBadRequest, resp
	}

	switch {
	case errors.Is(err, clients.ErrUnauthorized):
		resp.Error = models.Error{Code: "SESSION_EXPIRED", Message: "Your session has expired. Please sign in again."}
		return http.StatusUnauthorized, resp
	case errors.Is(err, repository.ErrDraftNotFound):
		resp.Error = models.Error{Code: "DRAFT_NOT_FOUND", Message: "Draft not found or expired"}
		return http.StatusNotFound, resp
	case errors.Is(err, repository.ErrSubmissionInFlight):
		resp.Error = models.Error{Code: "SUBMISSION_IN_PROGRESS", Message: "A submission for this item is already in progress"}
		return http.StatusConflict, resp
	}

	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			resp.Error = models.Error{Code: backendCode(apiErr.StatusCode), Message: apiErr.Message}
			return apiErr.StatusCode, resp
		}
		resp.Error = models.Error{Code: "STOREFRONT_ERROR", Message: apiErr.Message}
		return http.StatusBadGateway, resp
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		resp.Error = models.Error{Code: "STOREFRONT_UNAVAILABLE", Message: "The storefront backend could not be reached"}
		return http.StatusBadGateway, resp
	}

	resp.Error = models.Error{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}
	return http.StatusInternalServerError, resp
}

func backendCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "INVALID_INPUT"
	}
	return "STOREFRONT_REJECTED"
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
