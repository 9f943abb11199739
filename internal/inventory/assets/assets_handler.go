package assets

import (
	"context"
	"net/http"
	"strconv"

	"assetdesk/internal/core/response"
	"assetdesk/pkg/models"

	"github.com/gin-gonic/gin"
)

type AssetManager interface {
	GetAsset(ctx context.Context, id int64) (*models.Asset, error)
	GetAssets(ctx context.Context, filter models.AssetFilter) ([]models.Asset, error)
	Summary(ctx context.Context) ([]models.StatusCount, error)
	CreateAsset(ctx context.Context, req models.AssetRequest) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id int64, changes models.AssetChanges) (*models.Asset, error)
	RemoveAsset(ctx context.Context, id int64) error
}

type AssetHandler struct {
	service AssetManager
}

func NewAssetHandler(service AssetManager) *AssetHandler {
	return &AssetHandler{service: service}
}

func (h *AssetHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/assets", h.GetAssets)
	router.GET("/assets/summary", h.GetSummary)
	router.GET("/assets/:id", h.GetAsset)
	router.POST("/assets", h.CreateAsset)
	router.PATCH("/assets/:id", h.UpdateAsset)
	router.DELETE("/assets/:id", h.RemoveAsset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	var filter models.AssetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	assets, err := h.service.GetAssets(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err, "Unable to get assets")
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetSummary(c *gin.Context) {
	counts, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Unable to get asset summary")
		return
	}

	c.JSON(http.StatusOK, counts)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	asset, err := h.service.GetAsset(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "Unable to get asset")
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.service.CreateAsset(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err, "Unable to create asset")
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var changes models.AssetChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.service.UpdateAsset(c.Request.Context(), id, changes)
	if err != nil {
		response.Error(c, err, "Unable to update asset")
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.RemoveAsset(c.Request.Context(), id); err != nil {
		response.Error(c, err, "Unable to remove asset")
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return 0, false
	}

	return id, true
}
