package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/abacreative/admin-services/handlers"
	"github.com/abacreative/admin-services/internal/backup"
	"github.com/abacreative/admin-services/internal/config"
	"github.com/abacreative/admin-services/internal/database"
	"github.com/abacreative/admin-services/internal/kv"
	"github.com/abacreative/admin-services/internal/monitor"
	"github.com/abacreative/admin-services/internal/sessions"
	"github.com/abacreative/admin-services/internal/storage"
	"github.com/abacreative/admin-services/internal/store"
	"github.com/abacreative/admin-services/internal/triage"
	"github.com/abacreative/admin-services/internal/users"
	"github.com/abacreative/admin-services/pkg/logger"
	"github.com/abacreative/admin-services/pkg/metrics"
	"github.com/abacreative/admin-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: remote=%v redis=%v minio=%v",
		cfg.Remote.URI != "", cfg.Redis.Host != "", cfg.Backup.MinIOEndpoint != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// Connect to Redis early so the rate limiter, sessions and monitor
	// can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Local persistent storage: always available, seeds the default admin
	area, err := kv.Open(cfg.Local.DataDir)
	if err != nil {
		logger.Fatalf("failed to open local data dir %q: %v", cfg.Local.DataDir, err)
	}
	local := store.NewLocalStore(area)

	// Remote hosted database: best effort with retry, the service runs
	// local-only when it never comes up
	var remote store.Store
	var probe store.Probe
	var mongoClient *mongo.Client
	if cfg.RemoteConfigured() {
		const maxAttempts = 5
		backoffDelay := time.Second
		var db *mongo.Database
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, db, errConn = database.ConnectRemote(ctx, cfg.Remote)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to remote database: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoffDelay)
				backoffDelay *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("remote database unavailable after %d attempts, running local-only: %v", maxAttempts, errConn)
		} else {
			ms := store.NewMongoStore(db)
			remote = ms
			probe = ms.Ping
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			logger.Infof("remote database connected (%s)", cfg.Remote.Database)
		}
	} else {
		logger.Infof("remote database not configured, running local-only")
	}

	sel := store.NewSelector(local, remote, probe, cfg.Remote.Timeout)
	facade := store.NewFacade(sel)

	// services
	usersSvc := users.NewService(facade)
	triageSvc := triage.NewService(facade)
	backupSvc := backup.NewService(facade, local)
	mon := monitor.New(redisClient)
	blacklist := sessions.NewBlacklist(redisClient)

	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("using Redis for session storage")
	} else {
		sessionsSvc = sessions.NewService(sessions.NewMemoryRepository())
		logger.Warnf("using in-memory session storage, refresh tokens do not survive restarts")
	}

	// backup artifact archive (optional)
	var artifacts *storage.ArtifactStore
	if cfg.Backup.MinIOEndpoint != "" {
		artifacts, err = storage.NewArtifactStore(cfg.Backup)
		if err != nil {
			logger.Warnf("backup artifact store unavailable: %v", err)
			artifacts = nil
		}
	}

	// routes
	root := r.Group("")
	public := r.Group("/api/v1")
	authed := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWT.Secret, blacklist))

	handlers.NewPublicHandler(facade, mon).Register(public)
	handlers.NewAuthHandler(cfg, usersSvc, sessionsSvc, blacklist, mon).Register(root, authed)
	handlers.NewAdminHandler(facade, usersSvc, triageSvc, backupSvc, artifacts, mon).Register(authed)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: local storage is the only hard dependency, remote and
	// redis are reported but never block readiness
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"storage": true,
			"redis":   redisClient != nil || cfg.Redis.Host == "",
			"remote":  remote != nil || cfg.Remote.URI == "",
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// background sweeps: monitor flush every 30s, auto-backup check hourly
	go func() {
		flush := time.NewTicker(30 * time.Second)
		sweep := time.NewTicker(time.Hour)
		defer flush.Stop()
		defer sweep.Stop()
		for {
			select {
			case <-flush.C:
				mon.Flush(ctx)
			case <-sweep.C:
				taken, err := backupSvc.Sweep(ctx)
				if err != nil {
					logger.Warnf("auto-backup sweep failed: %v", err)
				} else if taken {
					logger.Infof("auto-backup taken")
				}
			}
		}
	}()

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting admin service on %s (env=%s)", addr, cfg.Server.Environment)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
