package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Karthik-kushal/finalmini/internal/app/models/dto"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
	"github.com/Karthik-kushal/finalmini/internal/pkg/logger"
)

// HandleAPIError writes the error response for err. Client errors carry the
// message of the wrapped CustomError; server errors never expose internals.
func HandleAPIError(c *gin.Context, err error) {
	HandleAPIErrorWithMessage(c, err, "Internal server error")
}

// HandleAPIErrorWithMessage is HandleAPIError with a custom message for
// unclassified errors
func HandleAPIErrorWithMessage(c *gin.Context, err error, internalMessage string) {
	var (
		status int
		detail *dto.ErrorDetail
	)

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.Message(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		status = http.StatusForbidden
		detail = dto.NewErrorDetail(dto.ErrorCodeForbidden, apperrors.Message(err, "Permission denied"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		detail = dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		status = http.StatusUnauthorized
		detail = dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		status = http.StatusUnauthorized
		detail = dto.NewErrorDetail(dto.ErrorCodeUnauthorized, apperrors.Message(err, "Invalid token"))
	case errors.Is(err, apperrors.ErrValidationFailed):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.Message(err, "Validation failed"))
	case errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, apperrors.Message(err, "Bad request"))
	case errors.Is(err, apperrors.ErrConflict):
		// Duplicates are reported as 400 to keep existing clients working
		status = http.StatusBadRequest
		detail = dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, apperrors.Message(err, "Resource already exists"))
	default:
		status = http.StatusInternalServerError
		detail = dto.NewErrorDetail(dto.ErrorCodeInternalServer, internalMessage).WithSeverity(dto.ErrorSeverityCritical)
		logger.Error().
			Err(err).
			Str("requestId", RequestIDFromContext(c)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
	}

	var ce *apperrors.CustomError
	if status != http.StatusInternalServerError && errors.As(err, &ce) && len(ce.Details) > 0 {
		detail = detail.WithDetails(ce.Details)
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// HandleBindError writes a 400 for a request body that failed to bind
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
