package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/wagerbook/models"
)

// Response represents a standardized API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type ListMeta struct {
	Count int `json:"count"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{Success: true, Message: message, Data: data})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	SuccessResponse(c, http.StatusCreated, message, data)
}

// ListResponse sends a list with count metadata
func ListResponse(c *gin.Context, message string, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data, Meta: ListMeta{Count: count}})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, Details: details},
	})
}

func ValidationErrorResponse(c *gin.Context, details interface{}) {
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", details)
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func UnauthorizedResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized access", nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrStateConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrPersistenceFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DomainErrorResponse renders err using its kind for the status and its code for the body.
// A persistence failure still carries the committed result in data.
func DomainErrorResponse(c *gin.Context, err error, data interface{}) {
	status := StatusFor(err)
	code := models.Code(err)
	message := err.Error()

	var de *models.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}

	switch {
	case errors.Is(err, models.ErrPersistenceFailure):
		code = "PERSISTENCE_FAILURE"
		message = "change applied but could not be saved"
	case code == "":
		code = "INTERNAL_ERROR"
		message = "internal server error"
	}

	c.JSON(status, Response{
		Success: false,
		Data:    data,
		Error:   &ErrorInfo{Code: code, Message: message},
	})
}
