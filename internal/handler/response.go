package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the error envelope returned by every endpoint
type ErrorResponse struct {
	Message string `json:"message"`
}

// NewValidationError returns a 400 response with the given message
func NewValidationError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Message: message})
}

// NewNotFoundError returns a 404 response with the given message
func NewNotFoundError(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Message: message})
}

// NewConflictError returns a 409 response with the given message
func NewConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, ErrorResponse{Message: message})
}

// NewInternalError returns a 500 response with the given message
func NewInternalError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: message})
}
