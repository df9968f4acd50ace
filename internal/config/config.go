package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/dailyweather/internal/weather"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	// Used when the device position is unavailable or permission is denied.
	DefaultLocationName string
	DefaultCoordinate   weather.Coordinate

	// WeatherProvider is "openmeteo" or "weatherapi".
	WeatherProvider string
	WeatherAPIKey   string

	// Reverse and forward geocoding through Google; empty disables it.
	GoogleGeocodingAPIKey string

	StoreDriver  string // sqlite | postgres
	StoreDSN     string
	LocationsKey string

	RefreshInterval   time.Duration
	SearchDebounce    time.Duration
	SearchResultLimit int

	ProviderRPS        float64
	ProviderBurst      int
	ProviderMaxRetries int
	GeocodeCacheTTL    time.Duration
}

// Load reads configuration from environment with sensible defaults. envFiles
// are passed to godotenv; a missing file is not an error.
func Load(envFiles ...string) (*AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.DefaultLocationName = getenvDefault("DEFAULT_LOCATION_NAME", "Seoul")
	if cfg.DefaultCoordinate.Latitude, err = getenvFloat("DEFAULT_LATITUDE", 37.5665); err != nil {
		return nil, err
	}
	if cfg.DefaultCoordinate.Longitude, err = getenvFloat("DEFAULT_LONGITUDE", 126.9780); err != nil {
		return nil, err
	}
	if lat := cfg.DefaultCoordinate.Latitude; lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid DEFAULT_LATITUDE: %v out of range", lat)
	}
	if lon := cfg.DefaultCoordinate.Longitude; lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid DEFAULT_LONGITUDE: %v out of range", lon)
	}

	cfg.WeatherProvider = getenvDefault("WEATHER_PROVIDER", "openmeteo")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	switch cfg.WeatherProvider {
	case "openmeteo":
	case "weatherapi":
		if cfg.WeatherAPIKey == "" {
			return nil, fmt.Errorf("WEATHER_PROVIDER=weatherapi requires WEATHERAPI_API_KEY")
		}
	default:
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q: want openmeteo or weatherapi", cfg.WeatherProvider)
	}

	cfg.GoogleGeocodingAPIKey = os.Getenv("GOOGLE_GEOCODING_API_KEY")

	cfg.StoreDriver = getenvDefault("STORE_DRIVER", "sqlite")
	if cfg.StoreDriver != "sqlite" && cfg.StoreDriver != "postgres" {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want sqlite or postgres", cfg.StoreDriver)
	}
	cfg.StoreDSN = getenvDefault("STORE_DSN", "dailyweather.db")
	cfg.LocationsKey = getenvDefault("LOCATIONS_KEY", "savedLocations")

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = getenvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	cfg.SearchResultLimit = getenvInt("SEARCH_RESULT_LIMIT", 10)

	if cfg.ProviderRPS, err = getenvFloat("PROVIDER_RPS", 5); err != nil {
		return nil, err
	}
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 5)
	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 0)
	if cfg.GeocodeCacheTTL, err = getenvDuration("GEOCODE_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
