package api

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	_ "samurai/docs"
	"samurai/internal/app/advisor"
	"samurai/internal/app/config"
	"samurai/internal/app/dsn"
	"samurai/internal/app/handler"
	"samurai/internal/app/middleware"
	"samurai/internal/app/redis"
	"samurai/internal/app/repository"
	"samurai/internal/app/storage"
	"samurai/internal/pkg"
)

// StartServer собирает зависимости и запускает HTTP сервер
func StartServer() {
	log.Println("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		logrus.Fatal("database DSN is empty, check .env")
	}

	repo, err := repository.New(dsnStr)
	if err != nil {
		logrus.Fatalf("error initializing repository: %v", err)
	}

	// Redis обязателен: без него не работает logout
	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatalf("error connecting to redis: %v", err)
	}

	// MinIO необязателен: без него экспорт отдает CSV напрямую
	var minioClient *storage.MinIOClient
	if cfg.Minio.Endpoint != "" {
		minioClient, err = storage.NewMinIOClient(cfg.Minio.Endpoint, cfg.Minio.AccessKey,
			cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
		if err != nil {
			logrus.Warnf("minio unavailable, report export degrades to inline csv: %v", err)
			minioClient = nil
		}
	}

	adv := advisor.New(cfg.Advisor)

	h := handler.NewAPIHandler(repo, cfg, redisClient, minioClient, adv)
	am := middleware.NewAuthMiddleware(redisClient, cfg)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	app := pkg.NewApp(cfg, router, h, am)
	app.RunApp()

	log.Println("Server down")
}
