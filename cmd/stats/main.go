package main

import (
	"context"
	"log"

	"explore-with-me/config"
	"explore-with-me/internal/database"
	"explore-with-me/internal/queue"
	"explore-with-me/internal/stats"
	"explore-with-me/internal/worker"

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

	// 瀏覽紀錄先進 Redis Stream，worker 再批次落地，吸收瞬間流量
	hitQueue, err := queue.NewRedisStreamHitQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize hit queue: %v", err)
	}

	repository := stats.NewRepository(pool)
	service := stats.NewService(repository, hitQueue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hitWorker := worker.NewHitWorker(service, hitQueue)
	if err := hitWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start hit worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	stats.NewHandler(service).RegisterRoutes(router)

	if err := router.Run(cfg.Server.StatsAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
