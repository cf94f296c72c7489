package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fercho159-aq/taskflow/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidQuery       = errors.New("invalid query parameters")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newUnprocessableEntityError(message string) apiError {
	return newAPIError(http.StatusUnprocessableEntity, message)
}

// serviceError translates a service failure into the response sent to the
// client. Unknown failures never leak their message.
func serviceError(err error) apiError {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidDuration),
		errors.Is(err, services.ErrDurationTooLarge):
		return newBadRequestError(err.Error())
	case errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrEmptyRoster):
		return newUnprocessableEntityError(err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrPersonNotFound):
		return newNotFoundError(err.Error())
	case errors.Is(err, services.ErrClientAlreadyExists):
		return newConflictError(err.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
