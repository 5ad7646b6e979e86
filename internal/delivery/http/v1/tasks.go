package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docker-task-list/api/internal/models"
	"github.com/docker-task-list/api/internal/services"
)

// taskResponse keeps the wire format of the original API:
// the id is exposed as "_id" and the owner as "userId".
type taskResponse struct {
	ID        string     `json:"_id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Order     *int32     `json:"order,omitempty"`
	UserID    string     `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:        task.ID,
		Text:      task.Text,
		Completed: task.Completed,
		DueDate:   task.DueDate,
		Order:     task.Position,
		UserID:    task.UserID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

func newTaskListResponse(tasks []*models.Task) []taskResponse {
	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	return response
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	user, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c, user.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

type createTaskRequest struct {
	Text    string     `json:"text" binding:"required,max=500"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	user, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("text is required"))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:  user.ID,
		Text:    req.Text,
		DueDate: req.DueDate,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	user, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	task, err := h.tasks.ToggleTask(c, taskID, user.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to toggle task")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type editTaskRequest struct {
	Text    string     `json:"text" binding:"required,max=500"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

func (h *handlerImpl) HandleEditTask(c *gin.Context) {
	user, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req editTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("text is required"))
		return
	}

	taskID := c.Param("id")
	task, err := h.tasks.EditTask(c, services.EditTaskParams{
		ID:      taskID,
		UserID:  user.ID,
		Text:    req.Text,
		DueDate: req.DueDate,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to edit task")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	user, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	err := h.tasks.DeleteTask(c, taskID, user.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}

type reorderItemRequest struct {
	ID    string `json:"id" binding:"required"`
	Order int32  `json:"order"`
}

func (h *handlerImpl) HandleReorderTasks(c *gin.Context) {
	user, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req []reorderItemRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	if len(req) == 0 {
		h.logger.Error().Msg("empty reorder list")
		abort(c, newBadRequestError("at least one task is required"))
		return
	}

	items := make([]services.ReorderItem, len(req))
	for i, item := range req {
		items[i] = services.ReorderItem{
			ID:       item.ID,
			Position: item.Order,
		}
	}

	tasks, err := h.tasks.ReorderTasks(c, user.ID, items)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to reorder tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

type taskStatsResponse struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

func (h *handlerImpl) HandleTaskStats(c *gin.Context) {
	user, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	stats, err := h.tasks.TaskStats(c, user.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get task stats")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, taskStatsResponse{
		Total:     stats.Total,
		Completed: stats.Completed,
		Pending:   stats.Pending,
	})
}
