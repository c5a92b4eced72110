package utils

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestCheckHealthUnreachableBackends(t *testing.T) {
	// Nothing listens on port 1; the ping must fail fast and report the
	// session store as down. A nil Mongo client is simply not healthy.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	status := checkHealth(context.Background(), client, nil)
	assert.False(t, status.SessionStore)
	assert.False(t, status.Mongo)
	assert.False(t, status.CheckedAt.IsZero())
}

func TestGetHealthStatusReturnsSnapshot(t *testing.T) {
	healthMu.Lock()
	currentHealth = HealthStatus{Mongo: true, SessionStore: true, CheckedAt: time.Now()}
	healthMu.Unlock()

	status := GetHealthStatus()
	assert.True(t, status.Mongo)
	assert.True(t, status.SessionStore)
}
