package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy is true when every dependency answered the last check.
func (h HealthStatus) Healthy() bool {
	if !h.Mongo || h.CheckedAt.IsZero() {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

// Pinger is satisfied by *redis.Client wrappers and test fakes.
type Pinger func(ctx context.Context) error

// HealthMonitor keeps the latest dependency health snapshot.
type HealthMonitor struct {
	mongo   Pinger
	redis   []Pinger
	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(mongoClient *mongo.Client, redisClients ...*redis.Client) *HealthMonitor {
	m := &HealthMonitor{
		mongo: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}
	for _, c := range redisClients {
		client := c
		m.redis = append(m.redis, func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}
	return m
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Check pings every dependency once and stores the result.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var redisHealth []bool
	for _, ping := range m.redis {
		redisHealth = append(redisHealth, ping(ctx) == nil)
	}
	status := HealthStatus{
		Mongo:     m.mongo != nil && m.mongo(ctx) == nil,
		Redis:     redisHealth,
		CheckedAt: time.Now(),
	}

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// Start runs Check once and then on the cron expression (e.g. "@every 1m").
// Stop the returned scheduler on shutdown.
func (m *HealthMonitor) Start(spec string, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		status := m.Check(context.Background())
		if !status.Healthy() {
			logger.Warn("dependency health check failed", zap.Bool("mongo", status.Mongo), zap.Bools("redis", status.Redis))
		}
	})
	if err != nil {
		return nil, err
	}
	m.Check(context.Background())
	c.Start()
	return c, nil
}
