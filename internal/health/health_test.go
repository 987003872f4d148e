package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckBasicHealthy(t *testing.T) {
	h := NewHealthChecker(PingFunc(func(ctx context.Context) error { return nil }), "postgres")
	status := h.CheckBasic(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "postgres", status.Database.Driver)
	assert.Equal(t, "unavailable", status.Redis)
	assert.Nil(t, status.System)
}

func TestCheckBasicDatabaseDown(t *testing.T) {
	h := NewHealthChecker(PingFunc(func(ctx context.Context) error { return errors.New("connection refused") }), "dynamodb")
	status := h.CheckBasic(context.Background())

	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "connection refused", status.Database.Error)
}

func TestCheckBasicWithoutDatabase(t *testing.T) {
	status := NewHealthChecker(nil, "postgres").CheckBasic(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
}

func TestCheckDetailedIncludesSystem(t *testing.T) {
	h := NewHealthChecker(PingFunc(func(ctx context.Context) error { return nil }), "postgres")
	status := h.CheckDetailed(context.Background())
	assert.NotNil(t, status.System)
}
