package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthCheck probes every dependency concurrently.
func HealthCheck(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		results := make(map[string]string, len(deps))
		errs := make([]error, len(deps))
		names := make([]string, 0, len(deps))
		var g errgroup.Group
		i := 0
		for name, dep := range deps {
			idx, dep := i, dep
			names = append(names, name)
			g.Go(func() error {
				errs[idx] = dep.Ping(ctx)
				return nil
			})
			i++
		}
		_ = g.Wait()

		status, code := "healthy", http.StatusOK
		for idx, name := range names {
			if errs[idx] != nil {
				results[name] = "unavailable"
				status, code = "unhealthy", http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		c.JSON(code, gin.H{
			"status":   status,
			"message":  "EcoChef API is running",
			"services": results,
		})
	}
}
