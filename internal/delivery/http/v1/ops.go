package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyzTimeout = 2 * time.Second

type dueDateQuery struct {
	Duration *float64  `form:"duration" binding:"required"`
	Start    time.Time `form:"start" time_format:"2006-01-02T15:04:05Z07:00"`
}

type dueDateResponse struct {
	Duration float64    `json:"duration"`
	Start    *time.Time `json:"start,omitempty"`
	DueDate  time.Time  `json:"due_date"`
}

func (h *handlerImpl) HandleGetDueDate(c *gin.Context) {
	logger := h.requestLogger(c)

	var query dueDateQuery
	err := c.ShouldBindQuery(&query)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBadRequestError(errInvalidQuery.Error()))
		return
	}

	var start *time.Time
	if !query.Start.IsZero() {
		start = &query.Start
	}

	due, err := h.dueDates.DueDate(*query.Duration, start)
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	resp := dueDateResponse{
		Duration: *query.Duration,
		DueDate:  due,
	}
	if start != nil {
		local := start.In(due.Location())
		resp.Start = &local
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlerImpl) HandleHealthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *handlerImpl) HandleReadyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, readyzTimeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Error().
			Err(err).
			Msg("storage is not ready")
		abort(c, newStatusTextError(http.StatusServiceUnavailable))
		return
	}
	c.String(http.StatusOK, "ready")
}
