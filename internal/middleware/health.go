package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthStatus struct {
	Status      string    `json:"status"`
	Database    string    `json:"database"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

var (
	healthMutex sync.RWMutex
	version     = "1.0.0"
	startTime   = time.Now()
)

// HealthCheckMiddleware reports service health. The database is pinged on every
// call; a failed ping answers 503.
func HealthCheckMiddleware(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		healthMutex.RLock()
		status := HealthStatus{
			Status:      "ok",
			Database:    "ok",
			LastChecked: time.Now(),
			Uptime:      time.Since(startTime).Round(time.Second).String(),
			Version:     version,
		}
		healthMutex.RUnlock()

		if err := db.PingContext(ctx); err != nil {
			status.Status = "degraded"
			status.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}

		c.JSON(http.StatusOK, status)
	}
}

func SetVersion(v string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()

	version = v
}
