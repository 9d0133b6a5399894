package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Check is one readiness dependency
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// DBCheck pings the database returned by getDB
func DBCheck(getDB func() *gorm.DB) Check {
	return Check{
		Name: "database",
		Fn: func(ctx context.Context) error {
			db := getDB()
			if db == nil {
				return errors.New("database not connected")
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

// RedisCheck pings redis
func RedisCheck(client *redis.Client) Check {
	return Check{
		Name: "redis",
		Fn: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// Register mounts /health (liveness) and /ready (dependencies) on r
func Register(r gin.IRoutes, service string, checks ...Check) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": service})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		failed := gin.H{}
		for _, check := range checks {
			if err := check.Fn(ctx); err != nil {
				failed[check.Name] = err.Error()
			}
		}

		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": service, "checks": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": service})
	})
}
