package auditlog

import (
	"context"
	"net/http"

	"assetdesk/internal/core/response"
	"assetdesk/internal/repository"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/gin-gonic/gin"
)

type HistoryReader interface {
	GetHistory(ctx context.Context, conditions repository.QueryBuilder) ([]models.History, error)
}

type HistoryHandler struct {
	r HistoryReader
}

func NewHistoryHandler(r HistoryReader) *HistoryHandler {
	return &HistoryHandler{r: r}
}

func (h *HistoryHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/history", h.GetHistory)
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	var filter models.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	if filter.Action != "" {
		if _, err := metadata.NewAction(filter.Action); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid history action", "details": err.Error()})
			return
		}
	}

	conditions := repository.NewQueryBuilder()
	conditions.AddCondition("asset_id", filter.AssetID)
	conditions.AddCondition("employee_id", filter.EmployeeID)
	conditions.AddCondition("action", filter.Action)

	entries, err := h.r.GetHistory(c.Request.Context(), conditions)
	if err != nil {
		response.Error(c, err, "Unable to get history")
		return
	}

	c.JSON(http.StatusOK, entries)
}
