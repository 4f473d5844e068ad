package api

import (
	"errors"
	"net/http"

	"netmesh-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   apiError `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, successResponse{Success: true, Data: data})
}

func respondError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	var ce *apperr.ConflictError
	var ne *apperr.NotFoundError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: apiError{Code: "VALIDATION_ERROR", Message: ve.Error()},
		})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, errorResponse{
			Error: apiError{Code: "CONFLICT", Message: ce.Error()},
		})
	case errors.As(err, &ne):
		c.JSON(http.StatusNotFound, errorResponse{
			Error: apiError{Code: "NOT_FOUND", Message: ne.Error()},
		})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error: apiError{Code: "INTERNAL", Message: "internal server error"},
		})
	}
}

// respondBindError turns gin binding failures into the validation shape of
// the error envelope, with the offending field when the validator knows it.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		respondError(c, apperr.Validation(verrs[0].Field(), "failed on "+verrs[0].Tag()))
		return
	}
	respondError(c, apperr.Validation("", err.Error()))
}
