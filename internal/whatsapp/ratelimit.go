package whatsapp

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited spaces out sends so bursts of deliveries stay under the provider's throughput limit
type RateLimited struct {
	provider WhatsAppProvider
	limiter  *rate.Limiter
}

// NewRateLimited wraps p. A non-positive perSecond disables limiting.
func NewRateLimited(p WhatsAppProvider, perSecond float64, burst int) WhatsAppProvider {
	if perSecond <= 0 {
		return p
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{provider: p, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (r *RateLimited) SendMedia(ctx context.Context, to, body, mediaURL string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.provider.SendMedia(ctx, to, body, mediaURL)
}

func (r *RateLimited) GetName() string {
	return r.provider.GetName()
}
