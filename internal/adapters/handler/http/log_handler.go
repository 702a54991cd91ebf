package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/services"
)

const dateLayout = "2006-01-02"

type LogHandler struct {
	svc *services.LogService
}

func NewLogHandler(svc *services.LogService) *LogHandler {
	return &LogHandler{svc: svc}
}

type createLogRequest struct {
	GoalID     string     `json:"goal_id" binding:"required" example:"4b0c5a52-9d0e-4f7e-9a57-3c2f1b6e8d11"`
	UnitAmount *int       `json:"unit_amount" example:"25"`
	CreatedAt  *time.Time `json:"created_at" example:"2026-10-15T08:30:00Z"`
}

func (h *LogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/logs")
	{
		logs.POST("", h.Create)
		logs.GET("", h.List)
		logs.GET("/:id", h.Get)
		logs.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary      Record reading progress against a goal
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        log  body      createLogRequest  true  "Log entry"
// @Success      201  {object}  domain.GoalLog
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /logs [post]
func (h *LogHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	input := services.CreateLogInput{
		GoalID:     req.GoalID,
		UserID:     userID,
		UnitAmount: req.UnitAmount,
	}
	if req.CreatedAt != nil {
		input.CreatedAt = req.CreatedAt.UTC()
	}

	entry, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// List godoc
// @Summary      List logs, newest first
// @Description  from and to accept RFC3339 or YYYY-MM-DD. A bare to date includes that whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query     string  false  "Range start"
// @Param        to    query     string  false  "Range end (exclusive for RFC3339)"
// @Param        type  query     string  false  "Goal type"  Enums(pages, minutes, books, days)
// @Success      200   {array}   domain.GoalLog
// @Failure      400   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	from, err := parseTimeParam(c.Query("from"), false)
	if err != nil {
		badRequest(c, "invalid from, use RFC3339 or YYYY-MM-DD")
		return
	}
	to, err := parseTimeParam(c.Query("to"), true)
	if err != nil {
		badRequest(c, "invalid to, use RFC3339 or YYYY-MM-DD")
		return
	}

	logs, err := h.svc.List(c.Request.Context(), services.ListLogsInput{
		UserID: userID,
		Type:   c.Query("type"),
		From:   from,
		To:     to,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// Get godoc
// @Summary      Get one log
// @Tags         logs
// @Produce      json
// @Param        id   path      string  true  "Log ID"
// @Success      200  {object}  domain.GoalLog
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /logs/{id} [get]
func (h *LogHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete godoc
// @Summary      Delete a mistaken log
// @Tags         logs
// @Param        id   path  string  true  "Log ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /logs/{id} [delete]
func (h *LogHandler) Delete(c *gin.Context) {
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

// parseTimeParam accepts RFC3339 or a UTC date. With endOfDay set a date
// resolves to the following midnight. An empty value yields the zero time.
func parseTimeParam(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1)
	}
	return d, nil
}
