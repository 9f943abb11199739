package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "assetdesk/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"not found", fmt.Errorf("assign: %w", custom_error.NewNotFound("asset", 1)), http.StatusNotFound},
		{"validation", custom_error.NewValidation("serial_number", "is required"), http.StatusBadRequest},
		{"duplicate serial", custom_error.WrapDBError("Duplicate serial number", "23505").(error), http.StatusConflict},
		{"referenced employee", custom_error.WrapDBError("employee", "23503").(error), http.StatusConflict},
		{"illegal transition", &custom_error.TransitionError{Resource: "asset", ID: 1, From: "Retired", To: "Available"}, http.StatusConflict},
		{"storage failure", custom_error.NewStorage("select assets", errors.New("timeout")), http.StatusInternalServerError},
		{"plain error", errors.New("unexpected"), http.StatusInternalServerError},
		{"store deadline exceeded", fmt.Errorf("assign: %w", custom_error.NewStorage("lock asset", context.DeadlineExceeded)), http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err, "Request failed")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}
