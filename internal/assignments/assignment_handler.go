package assignments

import (
	"context"
	"net/http"
	"strconv"

	"assetdesk/internal/core/response"
	"assetdesk/pkg/models"

	"github.com/gin-gonic/gin"
)

type AssignmentManager interface {
	Assign(ctx context.Context, req models.AssignmentRequest) (*models.Assignment, error)
	ReturnAssignment(ctx context.Context, id int64) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*models.Assignment, error)
	GetAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

type AssignmentHandler struct {
	service AssignmentManager
}

func NewAssignmentHandler(service AssignmentManager) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

func (h *AssignmentHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/assignments", h.CreateAssignment)
	router.GET("/assignments", h.GetAssignments)
	router.GET("/assignments/:id", h.GetAssignment)
	router.PUT("/assignments/return/:id", h.ReturnAssignment)
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	assignment, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err, "Unable to assign asset")
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	var filter models.AssignmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	assignments, err := h.service.GetAssignments(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err, "Unable to get assignments")
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	assignment, err := h.service.GetAssignment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "Unable to get assignment")
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) ReturnAssignment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	assignment, err := h.service.ReturnAssignment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "Unable to return asset")
		return
	}

	c.JSON(http.StatusOK, assignment)
}
