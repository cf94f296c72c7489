package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/services"
)

type createTaskRequest struct {
	Description string   `json:"description" binding:"required"`
	Duration    float64  `json:"duration" binding:"required"`
	PersonID    string   `json:"person_id,omitempty"`
	ClientID    string   `json:"client_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type createTaskResponse struct {
	PersonID   string      `json:"person_id"`
	PersonName string      `json:"person_name"`
	TotalHours float64     `json:"total_hours"`
	Task       models.Task `json:"task"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	logger := h.requestLogger(c)

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		Description: req.Description,
		Duration:    req.Duration,
		PersonID:    req.PersonID,
		ClientID:    req.ClientID,
		Tags:        req.Tags,
	})
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, serviceError(err))
		return
	}

	logger.Info().
		Str("task_id", result.Task.ID).
		Str("person_id", result.Person.ID).
		Msg("created task")
	c.JSON(http.StatusCreated, createTaskResponse{
		PersonID:   result.Person.ID,
		PersonName: result.Person.Name,
		TotalHours: result.Person.TotalHours(),
		Task:       result.Task,
	})
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	logger := h.requestLogger(c)
	ref := services.TaskRefParams{
		PersonID: c.Param("personID"),
		TaskID:   c.Param("taskID"),
	}

	task, err := h.tasks.ToggleTask(c, ref)
	if err != nil {
		logger.Error().
			Err(err).
			Str("task_id", ref.TaskID).
			Msg("failed to toggle task")
		abort(c, serviceError(err))
		return
	}

	logger.Info().
		Str("task_id", task.ID).
		Bool("is_completed", task.IsCompleted).
		Msg("toggled task")
	c.JSON(http.StatusOK, task)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	logger := h.requestLogger(c)
	ref := services.TaskRefParams{
		PersonID: c.Param("personID"),
		TaskID:   c.Param("taskID"),
	}

	err := h.tasks.DeleteTask(c, ref)
	if err != nil {
		logger.Error().
			Err(err).
			Str("task_id", ref.TaskID).
			Msg("failed to delete task")
		abort(c, serviceError(err))
		return
	}

	logger.Info().
		Str("task_id", ref.TaskID).
		Msg("deleted task")
	c.Status(http.StatusNoContent)
}
