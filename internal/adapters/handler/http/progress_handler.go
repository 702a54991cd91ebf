package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/services"
)

type ProgressHandler struct {
	svc   *services.ProgressService
	clock func() time.Time
}

func NewProgressHandler(svc *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		svc:   svc,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/progress", h.Get)
}

// Get godoc
// @Summary      Goal progress, streak and week dots
// @Description  Without now the cached report for the current day is served when available.
// @Description  With now the report is computed for that instant and never cached.
// @Tags         progress
// @Produce      json
// @Param        now  query     string  false  "Evaluation instant (RFC3339)"
// @Success      200  {object}  domain.ProgressReport
// @Failure      400  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /progress [get]
func (h *ProgressHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if raw := c.Query("now"); raw != "" {
		now, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "invalid now, use RFC3339")
			return
		}

		report, err := h.svc.Report(c.Request.Context(), userID, now.UTC())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}

	report, err := h.svc.CachedReport(c.Request.Context(), userID, h.clock())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
