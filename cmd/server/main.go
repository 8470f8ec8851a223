package main

import (
	"log"

	"explore-with-me/config"
	"explore-with-me/internal/cache"
	"explore-with-me/internal/database"
	"explore-with-me/internal/handler"
	"explore-with-me/internal/repository"
	"explore-with-me/internal/service"
	"explore-with-me/internal/stats"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// Repositories
	eventRepository := repository.NewEventRepository(pool)
	requestRepository := repository.NewRequestRepository(pool)
	userRepository := repository.NewUserRepository(pool)
	categoryRepository := repository.NewCategoryRepository(pool)

	// 統計服務 client 與瀏覽數快取
	statsClient := stats.NewClient(cfg.Stats.URL, cfg.Stats.Timeout)
	viewsCache := cache.NewRedisViewsCacheManager(rdb, 0)

	// Services
	enricher := service.NewEventEnricher(requestRepository, statsClient, viewsCache, cfg.Stats.AppName)
	eventService := service.NewEventService(eventRepository, userRepository, categoryRepository, enricher, cfg.Rules)
	requestService := service.NewRequestService(pool, requestRepository, eventRepository, userRepository)

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewAdminEventHandler(eventService).RegisterRoutes(router)
	handler.NewPublicEventHandler(eventService).RegisterRoutes(router)
	handler.NewRequestHandler(requestService).RegisterRoutes(router)

	if err := router.Run(cfg.Server.MainAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
