package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/container"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/internal/router"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/mailer"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	c := container.New(cfg, logger)

	if cfg.DBDriver == "postgres" {
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
			DSN:             cfg.PostgresDSN(),
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
			ConnectAttempts: cfg.DBConnectTry,
		}, logger)
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
		c.Pool = pool
	}

	// Redis backs rate limiting only; the service runs without it.
	if cfg.RateLimitEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			helpers.LogError(logger, "redis unavailable, rate limiting disabled", err, logrus.Fields{"addr": cfg.RedisAddr})
		} else {
			c.Redis = rdb
		}
	}

	if cfg.ImageStorage == "gcs" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		c.GCS = gcsClient
	}

	switch cfg.MailDelivery {
	case "queue":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer pub.Close()
		c.Publisher = pub
	case "direct":
		c.Mailgun = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}

	if cfg.ElasticsearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.Fatalf("failed to init elasticsearch client: %v", err)
		}
		if err := helpers.PingES(ctx, es); err != nil {
			helpers.LogError(logger, "elasticsearch unavailable, search disabled", err, nil)
		} else {
			c.ES = es
		}
	}

	if err := c.Build(); err != nil {
		logger.Fatalf("failed to build container: %v", err)
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowCredentials = false
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	if cfg.ImageStorage == "local" {
		r.Static(cfg.UploadsURLPrefix, cfg.UploadsDir)
	}

	reg := router.NewRegistry(r, cfg.APIBasePath)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{
			"port":     cfg.Port,
			"db":       cfg.DBDriver,
			"images":   cfg.ImageStorage,
			"delivery": cfg.MailDelivery,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
