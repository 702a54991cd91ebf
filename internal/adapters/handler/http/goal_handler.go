package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/services"
)

type GoalHandler struct {
	svc *services.GoalService
}

func NewGoalHandler(svc *services.GoalService) *GoalHandler {
	return &GoalHandler{
		svc: svc,
	}
}

type createGoalRequest struct {
	Type       string `json:"type" binding:"required" example:"pages"`
	TimeType   string `json:"time_type" binding:"required" example:"weekly"`
	UnitAmount *int   `json:"unit_amount" example:"120"`
}

type updateGoalRequest struct {
	Type       string `json:"type" example:"minutes"`
	TimeType   string `json:"time_type" example:"daily"`
	UnitAmount *int   `json:"unit_amount" example:"30"`
	Version    int    `json:"version" example:"1"`
}

func (h *GoalHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.POST("", h.Create)
		goals.GET("", h.List)
		goals.GET("/:id", h.Get)
		goals.PUT("/:id", h.Update)
		goals.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary      Create a reading goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Param        goal  body      createGoalRequest  true  "Goal definition"
// @Success      201   {object}  domain.Goal
// @Failure      400   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	goal, err := h.svc.Create(c.Request.Context(), services.CreateGoalInput{
		UserID:     userID,
		Type:       req.Type,
		TimeType:   req.TimeType,
		UnitAmount: req.UnitAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// List godoc
// @Summary      List the caller's goals
// @Tags         goals
// @Produce      json
// @Success      200  {array}  domain.Goal
// @Security     BearerAuth
// @Router       /goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary      Get one goal
// @Tags         goals
// @Produce      json
// @Param        id   path      string  true  "Goal ID"
// @Success      200  {object}  domain.Goal
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	goal, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// Update godoc
// @Summary      Update a goal
// @Description  Empty fields keep their stored value. A non-zero version must match the stored one.
// @Tags         goals
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Goal ID"
// @Param        goal  body      updateGoalRequest  true  "Changes"
// @Success      200   {object}  domain.Goal
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	goal, err := h.svc.Update(c.Request.Context(), services.UpdateGoalInput{
		ID:         c.Param("id"),
		UserID:     userID,
		Type:       req.Type,
		TimeType:   req.TimeType,
		UnitAmount: req.UnitAmount,
		Version:    req.Version,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// Delete godoc
// @Summary      Delete a goal and its logs
// @Tags         goals
// @Param        id   path  string  true  "Goal ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
