package metrics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector periodically counts the non-removed rows of a set of tables
type BusinessMetricsCollector struct {
	db       func() *gorm.DB
	metrics  *Metrics
	logger   *zap.Logger
	tables   map[string]string // entity label -> table
	interval time.Duration
	done     chan struct{}
	once     sync.Once
}

// NewBusinessMetricsCollector creates a new collector. db is called on every run so a
// connection established later by the async connector is picked up.
func NewBusinessMetricsCollector(db func() *gorm.DB, m *Metrics, logger *zap.Logger, interval time.Duration, tables map[string]string) *BusinessMetricsCollector {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &BusinessMetricsCollector{
		db:       db,
		metrics:  m,
		logger:   logger,
		tables:   tables,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *BusinessMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.Collect()
		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *BusinessMetricsCollector) Stop() {
	c.once.Do(func() { close(c.done) })
}

// Collect gathers business metrics once
func (c *BusinessMetricsCollector) Collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection", zap.Any("panic", r))
		}
	}()

	db := c.db()
	if db == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for entity, table := range c.tables {
		var count int64
		if err := db.WithContext(ctx).Table(table).Where("removed IS NULL").Count(&count).Error; err != nil {
			c.logger.Error("Failed to count rows", zap.String("table", table), zap.Error(err))
			continue
		}
		c.metrics.SetEntitiesTotal(entity, count)
	}
}
