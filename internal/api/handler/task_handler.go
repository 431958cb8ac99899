package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/api/metrics"
	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// Broadcaster is the fan-out contract the task handler emits through after
// a successful mutation, before the HTTP response is written.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// TaskHandler handles HTTP requests for task operations and relays mutation
// events to the broadcaster.
type TaskHandler struct {
	service     ports.TaskService
	broadcaster Broadcaster
}

func NewTaskHandler(service ports.TaskService, broadcaster Broadcaster) *TaskHandler {
	return &TaskHandler{service: service, broadcaster: broadcaster}
}

// --- Request types ---

type createTaskRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,min=1,max=1000"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

// emit relays the mutation event when present. Delivery happens before the
// response is serialized and never affects it.
func (h *TaskHandler) emit(bc *ports.Broadcast) {
	if bc == nil {
		return
	}
	h.broadcaster.Broadcast(bc.Event, bc.Payload)
	metrics.TaskMutationsTotal.WithLabelValues(bc.Event).Inc()
}

// Create handles POST /task.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Router       /task [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	task, bc, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
	})
	if err != nil {
		return err
	}

	h.emit(bc)
	return c.JSON(http.StatusCreated, OK(task, "Task created successfully"))
}

// Update handles PUT /task/:id.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to update"
// @Success      200   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /task/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	update := ports.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		update.Status = &status
	}

	task, bc, err := h.service.Update(c.Request().Context(), c.Param("id"), update)
	if err != nil {
		return err
	}

	h.emit(bc)
	return c.JSON(http.StatusOK, OK(task, "Task updated successfully"))
}

// Delete handles DELETE /task/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id  path      string  true  "Task id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /task/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	task, bc, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.emit(bc)
	return c.JSON(http.StatusOK, OK(task, "Task deleted successfully"))
}

// Get handles GET /task/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Task id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /task/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, OK(task, "Task fetched successfully"))
}

// List handles GET /task.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Router       /task [get]
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, OK(tasks, "Tasks fetched successfully"))
}
