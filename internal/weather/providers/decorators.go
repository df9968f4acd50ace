package providers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/dailyweather/internal/weather"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a weather.Provider with a token bucket.
type RateLimitedProvider struct {
	provider weather.Provider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider allows rps requests per second with the given burst.
func NewRateLimitedProvider(provider weather.Provider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

func (r *RateLimitedProvider) Fetch(ctx context.Context, coord weather.Coordinate) (weather.Observation, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return weather.Observation{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.Fetch(ctx, coord)
}

func (r *RateLimitedProvider) Name() string {
	return r.name
}

// FallbackGeocoder asks primary first and secondary when primary fails.
type FallbackGeocoder struct {
	primary   weather.Geocoder
	secondary weather.Geocoder
}

func NewFallbackGeocoder(primary, secondary weather.Geocoder) *FallbackGeocoder {
	return &FallbackGeocoder{primary: primary, secondary: secondary}
}

func (f *FallbackGeocoder) Forward(ctx context.Context, name string) (weather.Coordinate, error) {
	c, err := f.primary.Forward(ctx, name)
	if err == nil {
		return c, nil
	}
	log.Printf("geocoding: primary forward lookup for %q failed, trying secondary: %v", name, err)
	return f.secondary.Forward(ctx, name)
}

func (f *FallbackGeocoder) Reverse(ctx context.Context, coord weather.Coordinate) (string, error) {
	name, err := f.primary.Reverse(ctx, coord)
	if err == nil {
		return name, nil
	}
	log.Printf("geocoding: primary reverse lookup for %s failed, trying secondary: %v", coord, err)
	return f.secondary.Reverse(ctx, coord)
}

// CachedGeocoder memoizes successful lookups. Failures are not cached.
type CachedGeocoder struct {
	geocoder weather.Geocoder
	cache    *cache.Cache
}

func NewCachedGeocoder(g weather.Geocoder, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		geocoder: g,
		cache:    cache.New(ttl, 2*ttl),
	}
}

func (c *CachedGeocoder) Forward(ctx context.Context, name string) (weather.Coordinate, error) {
	key := "fwd:" + name
	if v, ok := c.cache.Get(key); ok {
		return v.(weather.Coordinate), nil
	}
	coord, err := c.geocoder.Forward(ctx, name)
	if err != nil {
		return weather.Coordinate{}, err
	}
	c.cache.SetDefault(key, coord)
	return coord, nil
}

func (c *CachedGeocoder) Reverse(ctx context.Context, coord weather.Coordinate) (string, error) {
	key := "rev:" + coord.String()
	if v, ok := c.cache.Get(key); ok {
		return v.(string), nil
	}
	name, err := c.geocoder.Reverse(ctx, coord)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(key, name)
	return name, nil
}

// Verify the wrappers implement the interfaces they decorate.
var (
	_ weather.Provider  = (*RateLimitedProvider)(nil)
	_ weather.Geocoder  = (*FallbackGeocoder)(nil)
	_ weather.Geocoder  = (*CachedGeocoder)(nil)
	_ weather.Geocoder  = (*GoogleGeocoder)(nil)
	_ weather.Geocoder  = (*OpenMeteoGeocoding)(nil)
	_ weather.Completer = (*OpenMeteoGeocoding)(nil)
	_ weather.Provider  = (*OpenMeteoProvider)(nil)
)
