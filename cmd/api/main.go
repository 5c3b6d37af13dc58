package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"worklog/internal/config"
	"worklog/internal/database"
	"worklog/internal/domain/auth"
	"worklog/internal/domain/notification"
	"worklog/internal/domain/upload"
	"worklog/internal/domain/worklog"
	"worklog/internal/middleware"
	jwtsvc "worklog/internal/pkg/jwt"
	"worklog/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := database.Migrate(db,
		&auth.User{},
		&worklog.WorkLog{},
		&notification.Notification{},
	); err != nil {
		log.Fatal(err)
	}

	var store storage.Storage
	if cfg.Storage.Endpoint != "" {
		store, err = storage.NewMinio(storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("STORAGE_ENDPOINT is empty, using in-memory object store (dev only)")
		store = storage.NewMemory()
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, j)
	authHandler := auth.NewHandler(authService)

	notifRepo := notification.NewRepository(db)
	notifService := notification.NewService(notifRepo)
	notifHandler := notification.NewHandler(notifService)

	logRepo := worklog.NewRepository(db)
	logService := worklog.NewService(logRepo, notifService, store)
	logHandler := worklog.NewHandler(logService)

	uploadPolicy := upload.DefaultPolicy()
	uploadPolicy.MaxPhotoSize = cfg.MaxPhotoSize
	uploadPolicy.MaxDocumentSize = cfg.MaxDocumentSize
	uploadService := upload.NewService(logRepo, store, uploadPolicy)
	uploadHandler := upload.NewHandler(uploadService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Daily Work Log API is running"})
	})

	// Backward compatibility with the old local-disk pipeline.
	if cfg.AppEnv == "dev" {
		r.Static("/uploads", "./uploads")
	}

	v1 := r.Group("/api/v1")
	{
		auth.RegisterPublicRoutes(v1, authHandler)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			auth.RegisterProtectedRoutes(protected, authHandler)
			worklog.RegisterRoutes(protected, logHandler)
			upload.RegisterRoutes(protected, uploadHandler)
			notification.RegisterRoutes(protected, notifHandler)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Route not found",
			},
		})
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
