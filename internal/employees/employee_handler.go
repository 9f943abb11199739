package employees

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"assetdesk/internal/core/response"
	"assetdesk/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EmployeesHandler struct {
	Repository EmployeeRepository
	log        *zap.Logger
}

func NewHandler(r EmployeeRepository, log *zap.Logger) *EmployeesHandler {
	return &EmployeesHandler{
		Repository: r,
		log:        log,
	}
}

func (h *EmployeesHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/employees", h.CreateEmployee)
	router.GET("/employees", h.GetEmployees)
	router.GET("/employees/:id", h.GetEmployee)
	router.DELETE("/employees/:id", h.RemoveEmployee)
}

func (h *EmployeesHandler) CreateEmployee(c *gin.Context) {
	var req models.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	employee := models.Employee{
		Name:       strings.TrimSpace(req.Name),
		Department: strings.TrimSpace(req.Department),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      strings.TrimSpace(req.Phone),
	}

	if hireDate := req.HireDate.TimePtr(); hireDate != nil {
		employee.HireDate = *hireDate
	} else {
		employee.HireDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	if err := h.Repository.PersistEmployee(c.Request.Context(), &employee); err != nil {
		response.Error(c, err, "Unable to create employee")
		return
	}

	h.log.Info("Employee created", zap.Int64("employee_id", employee.ID), zap.String("department", employee.Department))

	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeesHandler) GetEmployees(c *gin.Context) {
	employees, err := h.Repository.GetEmployees(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Unable to get employees")
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (h *EmployeesHandler) GetEmployee(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
		return
	}

	employee, err := h.Repository.GetEmployee(c.Request.Context(), nil, id)
	if err != nil {
		response.Error(c, err, "Unable to get employee")
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeesHandler) RemoveEmployee(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
		return
	}

	if err := h.Repository.RemoveEmployee(c.Request.Context(), id); err != nil {
		response.Error(c, err, "Unable to remove employee")
		return
	}

	h.log.Info("Employee removed", zap.Int64("employee_id", id))

	c.Status(http.StatusNoContent)
}
