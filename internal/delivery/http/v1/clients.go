package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fercho159-aq/taskflow/internal/services"
)

type createClientRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

func (h *handlerImpl) HandleGetClients(c *gin.Context) {
	logger := h.requestLogger(c)

	clients, err := h.clients.ListClients(c)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to list clients")
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, clients)
}

func (h *handlerImpl) HandleCreateClient(c *gin.Context) {
	logger := h.requestLogger(c)

	var req createClientRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	client, err := h.clients.CreateClient(c, services.CreateClientParams{Name: req.Name})
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to create client")
		abort(c, serviceError(err))
		return
	}

	logger.Info().
		Str("client_id", client.ID).
		Msg("created client")
	c.JSON(http.StatusCreated, client)
}
