package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fercho159-aq/taskflow/internal/services"
)

type Handler interface {
	HandleRequestID(c *gin.Context)
	HandleLogging(c *gin.Context)

	HandleGetPeople(c *gin.Context)
	HandleGetEligibleClients(c *gin.Context)
	HandleGetWorkload(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetClients(c *gin.Context)
	HandleCreateClient(c *gin.Context)

	HandleGetDueDate(c *gin.Context)

	HandleHealthz(c *gin.Context)
	HandleReadyz(c *gin.Context)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlerImpl struct {
	logger   zerolog.Logger
	tasks    services.TaskService
	clients  services.ClientService
	dueDates services.DueDateService
	storage  Pinger
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
	clientService services.ClientService,
	dueDateService services.DueDateService,
	storage Pinger,
) Handler {
	return &handlerImpl{
		logger:   logger,
		tasks:    taskService,
		clients:  clientService,
		dueDates: dueDateService,
		storage:  storage,
	}
}

// Register mounts every route of the handler on router.
func Register(router gin.IRouter, h Handler) {
	router.GET("/healthz", h.HandleHealthz)
	router.GET("/readyz", h.HandleReadyz)

	api := router.Group("/api/v1", h.HandleRequestID, h.HandleLogging)

	api.GET("/people", h.HandleGetPeople)
	api.GET("/people/:personID/clients", h.HandleGetEligibleClients)
	api.POST("/people/:personID/tasks/:taskID/toggle", h.HandleToggleTask)
	api.DELETE("/people/:personID/tasks/:taskID", h.HandleDeleteTask)

	api.GET("/workload", h.HandleGetWorkload)
	api.POST("/tasks", h.HandleCreateTask)

	api.GET("/clients", h.HandleGetClients)
	api.POST("/clients", h.HandleCreateClient)

	api.GET("/due-date", h.HandleGetDueDate)
}
