package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/services"
)

type StatsHandler struct {
	svc   *services.StatsService
	clock func() time.Time
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{
		svc:   svc,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/daily", h.GetDailyStats)
}

// GetDailyStats godoc
// @Summary      Per-day totals for each goal type
// @Description  Defaults to the seven days ending today. The range is inclusive and at most 366 days.
// @Tags         stats
// @Produce      json
// @Param        start_date  query     string  false  "YYYY-MM-DD"
// @Param        end_date    query     string  false  "YYYY-MM-DD"
// @Success      200         {object}  domain.DailyStats
// @Failure      400         {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /stats/daily [get]
func (h *StatsHandler) GetDailyStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var endDate, startDate time.Time
	var err error

	if raw := c.Query("end_date"); raw == "" {
		endDate = h.clock()
	} else if endDate, err = time.Parse(dateLayout, raw); err != nil {
		badRequest(c, "invalid end_date format, expected YYYY-MM-DD")
		return
	}

	if raw := c.Query("start_date"); raw == "" {
		startDate = endDate.AddDate(0, 0, -6)
	} else if startDate, err = time.Parse(dateLayout, raw); err != nil {
		badRequest(c, "invalid start_date format, expected YYYY-MM-DD")
		return
	}

	stats, err := h.svc.GetDailyStats(c.Request.Context(), domain.StatsInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
