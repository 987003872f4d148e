package whatsapp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedDisabled(t *testing.T) {
	mock := NewMockService()
	assert.Same(t, WhatsAppProvider(mock), NewRateLimited(mock, 0, 1))
}

func TestRateLimitedPassesThrough(t *testing.T) {
	mock := NewMockService()
	p := NewRateLimited(mock, 100, 2)
	assert.Equal(t, "Mock", p.GetName())

	_, err := p.SendMedia(context.Background(), "+919876543210", "hi", "http://x/bill.pdf")
	require.NoError(t, err)
	assert.Len(t, mock.Sent(), 1)
}

func TestRateLimitedHonoursContext(t *testing.T) {
	mock := NewMockService()
	p := NewRateLimited(mock, 0.001, 1)

	_, err := p.SendMedia(context.Background(), "+919876543210", "first", "u")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = p.SendMedia(ctx, "+919876543210", "second", "u")
	assert.Error(t, err)
	assert.Len(t, mock.Sent(), 1)
}
