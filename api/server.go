package api

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"portscan/logging"
	"portscan/scanner"
)

// Run initializes dependencies and starts the API server.
func Run() error {
	logger := logging.Configure()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	redisAddr := getenv("REDIS_ADDR", "localhost:6379")
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", redisAddr, err)
	}

	store := NewRedisStore(redisClient)

	catalogPath := getenv("CATALOG_FILE", "ports.json")
	catalog, err := scanner.LoadCatalog(catalogPath)
	if err != nil {
		logger.Warn("could not load service catalog, ports will be reported as Unknown",
			"path", catalogPath, "error", err)
		catalog = scanner.EmptyCatalog()
	} else {
		logger.Info("service catalog loaded", "path", catalogPath, "entries", catalog.Len())
	}

	workers := getenvInt("SCAN_WORKERS", 5)
	StartWorkers(context.Background(), store, catalog, workers)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware(logger))
	router.Use(SecurityHeadersMiddleware())
	router.Use(RateLimitMiddleware(redisClient, int64(getenvInt("RATE_LIMIT", 60)), time.Minute, logger))

	server := NewServer(store)
	group := router.Group("/api/v1")
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		group.Use(AuthMiddleware(apiKey, logger))
	} else {
		logger.Warn("API_KEY not set, authentication disabled")
	}
	server.RegisterRoutes(group)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	addr := getenv("LISTEN_ADDR", ":8080")
	logger.Info("starting portscan API server", "addr", addr, "workers", workers)
	return router.Run(addr)
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
