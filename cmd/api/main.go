package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geoimport/internal/config"
	"geoimport/internal/database"
	"geoimport/internal/middleware"
	"geoimport/internal/modules/bulkimport"
	jwtsvc "geoimport/internal/pkg/jwt"
	"geoimport/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	var writer bulkimport.LocationWriter = repository.NewLocationRepository(db, cfg.ImportBatchSize)
	if cfg.BulkCopy && database.IsPostgresDSN(cfg.DatabaseURL) {
		pool, err := database.OpenPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("pgx pool failed: %v", err)
		}
		defer pool.Close()
		writer = repository.NewLocationCopyRepository(pool)
		log.Println("location writer: pgx copy")
	} else {
		log.Printf("location writer: gorm batch_size=%d", cfg.ImportBatchSize)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	importService := bulkimport.NewService(writer, bulkimport.Options{
		UploadRoot:        cfg.UploadRoot,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		MaxExtractedBytes: cfg.MaxExtractedBytes,
	})
	importHandler := bulkimport.NewHandler(importService, cfg.MaxUploadBytes)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.JWTAuth(j))
	{
		importHandler.RegisterRoutes(api)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
