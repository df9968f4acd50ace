package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/pflag"

	httpapi "github.com/i474232898/dailyweather/internal/api/http"
	"github.com/i474232898/dailyweather/internal/config"
	"github.com/i474232898/dailyweather/internal/controller"
	"github.com/i474232898/dailyweather/internal/db"
	"github.com/i474232898/dailyweather/internal/scheduler"
	"github.com/i474232898/dailyweather/internal/store"
	"github.com/i474232898/dailyweather/internal/ui"
	"github.com/i474232898/dailyweather/internal/weather"
	"github.com/i474232898/dailyweather/internal/weather/providers"
)

func main() {
	flags := pflag.NewFlagSet("dailyweather", pflag.ExitOnError)
	envFile := flags.String("env-file", ".env", "dotenv file to load before reading the environment")
	port := flags.String("port", "", "listen port (overrides PORT)")
	_ = flags.Parse(os.Args[1:])

	// Load configuration.
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Port = *port
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	httpCfg := providers.DefaultHTTPConfig(httpClient, cfg.ProviderMaxRetries)

	// Weather provider behind a client-side rate limit.
	var upstream weather.Provider = providers.NewOpenMeteoProvider(httpCfg)
	if cfg.WeatherProvider == "weatherapi" {
		upstream = providers.NewWeatherAPIProvider(httpCfg, cfg.WeatherAPIKey)
	}
	provider := providers.NewRateLimitedProvider(upstream, cfg.ProviderRPS, cfg.ProviderBurst)
	log.Printf("INFO: weather provider: %s", provider.Name())

	// Open-Meteo serves completion and is the forward geocoding fallback.
	// Reverse geocoding needs the Google key.
	places := providers.NewOpenMeteoGeocoding(httpCfg, cfg.SearchResultLimit)
	var geocoder weather.Geocoder = places
	if cfg.GoogleGeocodingAPIKey != "" {
		geocoder = providers.NewFallbackGeocoder(providers.NewGoogleGeocoder(cfg.GoogleGeocodingAPIKey), places)
	} else {
		log.Println("INFO: GOOGLE_GEOCODING_API_KEY not set; device location names will stay empty")
	}
	geocoder = providers.NewCachedGeocoder(geocoder, cfg.GeocodeCacheTTL)

	// Tracked names persist in the database; without one they live for this process only.
	var kv store.KeyValue
	gdb, err := db.Init(cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		log.Printf("ERROR: %v; tracked locations will not survive a restart", err)
		kv = store.NewMemoryKeyValue()
	} else {
		kv = store.NewGormKeyValue(gdb)
	}

	templates, err := ui.LoadTemplates()
	if err != nil {
		log.Fatalf("failed to load templates: %v", err)
	}

	ctrl := controller.New(controller.Deps{
		Service:   weather.NewService(provider),
		Geocoder:  geocoder,
		Completer: places,
		Store:     store.NewTracked(kv, cfg.LocationsKey),
		Templates: templates,
	}, controller.Config{
		DefaultName:       cfg.DefaultLocationName,
		DefaultCoordinate: cfg.DefaultCoordinate,
		SearchDebounce:    cfg.SearchDebounce,
	})
	defer ctrl.Close()

	events, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()
	go func() {
		for e := range events {
			log.Printf("event: %s id=%s name=%q %s", e.Kind, e.LocationID, e.Name, e.Detail)
		}
	}()

	ctrl.Start(context.Background())

	// Scheduler that periodically refreshes every location.
	sched := scheduler.New(ctrl, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "dailyweather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "dailyweather",
		})
	})

	httpapi.RegisterRoutes(app, ctrl)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("dailyweather listening on :%s", cfg.Port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
