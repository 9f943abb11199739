package response

import (
	"context"
	"errors"
	"net/http"

	custom_error "assetdesk/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Error aborts the request with the status that matches err's kind.
func Error(c *gin.Context, err error, message string) {
	var (
		notFound   *custom_error.NotFoundError
		validation *custom_error.ValidationError
		unique     *custom_error.UniqueViolationError
		foreignKey *custom_error.ForeignKeyViolationError
		transition *custom_error.TransitionError
	)

	switch {
	case errors.As(err, &notFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": message, "details": notFound.Error()})
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "details": validation.Error()})
	case errors.As(err, &unique):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": unique.Error()})
	case errors.As(err, &foreignKey):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": foreignKey.Error()})
	case errors.As(err, &transition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": transition.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "Request Timeout"})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
