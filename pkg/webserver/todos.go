package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gbergara/trip-planner/pkg/models"
	"github.com/gbergara/trip-planner/pkg/utils"
)

// TodoRequest is the payload for creating or replacing a todo.
type TodoRequest struct {
	TripID      string     `json:"trip_id" binding:"required"`
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func (r *TodoRequest) apply(todo *models.Todo, v *utils.Validator) error {
	if r.Category != "" && !models.TodoCategory(r.Category).IsValid() {
		return fmt.Errorf("invalid todo category: %s", r.Category)
	}
	if r.Priority < 0 || r.Priority > models.PriorityLow {
		return fmt.Errorf("priority must be between %d and %d", models.PriorityHigh, models.PriorityLow)
	}

	todo.Title = v.SanitizeInput(r.Title)
	todo.Description = v.SanitizeInput(r.Description)
	if r.Category != "" {
		todo.Category = models.TodoCategory(r.Category)
	}
	if r.Priority != 0 {
		todo.Priority = r.Priority
	}
	todo.DueDate = r.DueDate
	return nil
}

// ownedTodo loads a todo whose parent trip the caller owns.
func (s *Server) ownedTodo(c *gin.Context, id models.UUID) (*models.Todo, bool) {
	todo, err := s.repo.GetTodoByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Todo not found"))
		return nil, false
	}
	if _, err := s.repo.GetOwnedTrip(todo.TripID, s.currentOwner(c)); err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Todo not found"))
		return nil, false
	}
	return todo, true
}

func (s *Server) createTodo(c *gin.Context) {
	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	tripID, err := models.ParseUUID(req.TripID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid trip ID"))
		return
	}

	trip, err := s.repo.GetOwnedTrip(tripID, s.currentOwner(c))
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Trip not found"))
		return
	}

	todo := &models.Todo{TripID: trip.ID, Category: models.TodoOther, Priority: models.PriorityMedium}
	if err := req.apply(todo, s.validator); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	if err := s.repo.CreateTodo(todo); err != nil {
		s.logger.WithError(err).Error("Failed to create todo")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create todo"))
		return
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse(todo, "Todo created"))
}

func (s *Server) getTodo(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	todo, ok := s.ownedTodo(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse(todo, ""))
}

func (s *Server) updateTodo(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	todo, ok := s.ownedTodo(c, id)
	if !ok {
		return
	}

	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}
	if err := req.apply(todo, s.validator); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	if err := s.repo.UpdateTodo(todo); err != nil {
		s.logger.WithError(err).Error("Failed to update todo")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update todo"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(todo, "Todo updated"))
}

func (s *Server) deleteTodo(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	todo, ok := s.ownedTodo(c, id)
	if !ok {
		return
	}

	if err := s.repo.DeleteTodo(todo.ID); err != nil {
		s.logger.WithError(err).Error("Failed to delete todo")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to delete todo"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Todo deleted"))
}

// completeTodo toggles the completion flag, stamping the completion
// time on the way up and clearing it on the way down.
func (s *Server) completeTodo(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	todo, ok := s.ownedTodo(c, id)
	if !ok {
		return
	}

	var req struct {
		Completed *bool `json:"completed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	s.repo.SetTodoCompleted(todo, *req.Completed)
	if err := s.repo.UpdateTodo(todo); err != nil {
		s.logger.WithError(err).Error("Failed to update todo")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update todo"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(todo, "Todo updated"))
}
