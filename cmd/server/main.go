package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"provider-locator-service/internal/adapters/distance"
	"provider-locator-service/internal/adapters/ratelimit"
	"provider-locator-service/internal/adapters/repositories"
	"provider-locator-service/internal/api"
	"provider-locator-service/internal/api/handlers"
	"provider-locator-service/internal/config"
	"provider-locator-service/internal/platform/db"
	"provider-locator-service/internal/ports"
	"provider-locator-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS, OSRM) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	// The counter store prefers Redis; without a Redis address the
	// rate_limits table serves the same atomic contract.
	var counters ports.CounterStore
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASS"),
		})
		counters = ratelimit.NewRedisCounterStore(rdb)
		log.Printf("rate limit store=redis addr=%s", addr)
	} else {
		counters = ratelimit.NewPostgresCounterStore(pg)
		log.Print("rate limit store=postgres")
	}

	// An empty ORS key is not fatal: the primary tier reports itself
	// unavailable and the keyless fallback carries the traffic.
	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Print("ORS_API_KEY is empty; primary matrix tier disabled")
	}
	osrmBase := config.Get("OSRM_BASE_URL", "")

	matrix := []ports.MatrixProvider{
		distance.NewORSMatrixProvider(orsKey),
		distance.NewOSRMMatrixProvider(osrmBase),
	}
	routeFallback := distance.NewOSRMRouteProvider(osrmBase)

	aggregator := services.NewAggregator(matrix, routeFallback, services.AggregatorConfig{
		PrefilterCutoffKm: config.GetFloat("PREFILTER_CUTOFF_KM", 60),
		MaxRouted:         config.GetInt("MAX_ROUTED", 20),
		BatchSize:         config.GetInt("BATCH_SIZE", 10),
		BatchInterval:     config.GetDuration("BATCH_INTERVAL_MS", time.Millisecond, 200*time.Millisecond),
	})

	routeHandler := &handlers.RouteHandler{
		Authorizer: services.Authorizer{
			Tenants: repositories.NewPostgresTenantRepository(pg),
		},
		Limiter: services.RateLimiter{
			Store:       counters,
			MaxAttempts: int64(config.GetInt("RATE_LIMIT_MAX", 20)),
			Window:      config.GetDuration("RATE_LIMIT_WINDOW_S", time.Second, 60*time.Second),
		},
		Aggregator:     aggregator,
		ResultCutoffKm: config.GetFloat("RESULT_CUTOFF_KM", 40),
		MaxResults:     config.GetInt("MAX_RESULTS", 10),
	}

	cors := api.CORSPolicy{
		PreviewSuffix: config.Get("CORS_PREVIEW_SUFFIX", ""),
	}
	if origins := config.Get("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cors.AllowedOrigins = append(cors.AllowedOrigins, o)
			}
		}
	}

	router := api.NewRouter(routeHandler, cors)

	// Timeouts are tuned for multi-tier provider fallback (external API latency).
	port := config.Get("PORT", "8080")
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
