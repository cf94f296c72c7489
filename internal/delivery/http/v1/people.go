package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlerImpl) HandleGetPeople(c *gin.Context) {
	logger := h.requestLogger(c)

	roster, err := h.tasks.GetRoster(c)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to get roster")
		abort(c, serviceError(err))
		return
	}

	logger.Debug().
		Int("count", len(roster)).
		Msg("fetched people")
	c.JSON(http.StatusOK, roster)
}

func (h *handlerImpl) HandleGetWorkload(c *gin.Context) {
	logger := h.requestLogger(c)

	workload, err := h.tasks.GetWorkload(c)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to get workload")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, workload)
}

func (h *handlerImpl) HandleGetEligibleClients(c *gin.Context) {
	logger := h.requestLogger(c)
	personID := c.Param("personID")

	clients, err := h.clients.EligibleClients(c, personID)
	if err != nil {
		logger.Error().
			Err(err).
			Str("person_id", personID).
			Msg("failed to get eligible clients")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, clients)
}
