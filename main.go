package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eoauman/sylman/handlers"
	"github.com/eoauman/sylman/internal/config"
	"github.com/eoauman/sylman/internal/database"
	"github.com/eoauman/sylman/internal/sessions"
	"github.com/eoauman/sylman/internal/storage"
	"github.com/eoauman/sylman/internal/syllabus/repository"
	"github.com/eoauman/sylman/internal/syllabus/service"
	"github.com/eoauman/sylman/internal/tokens"
	"github.com/eoauman/sylman/internal/users"
	"github.com/eoauman/sylman/pkg/logger"
	"github.com/eoauman/sylman/pkg/metrics"
	"github.com/eoauman/sylman/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for dev/test; the editor frontend runs on another
	// origin. Production should use a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate limiter and session store can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Per-user rate limiting matters here: autosaving editors hit the API on
	// a timer, so the limiter keys on userId when authenticated.
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	var userSvc *users.Service
	var sessionsSvc *sessions.Service
	var mongoClient *mongo.Client

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["users"] = userSvc != nil
		deps["sessions"] = sessionsSvc != nil
		if userSvc == nil {
			ready = false
		}
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if redisClient == nil {
				ready = false
			}
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Prefer Redis-backed sessions when available; fall back to Mongo below.
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("using Redis for session storage")
	}

	ctx := context.Background()
	var syllabusRepo repository.Repository
	if cfg.MongoDB.URI != "" {
		// Retry/backoff to tolerate container startup races.
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			db := mongoClient.Database(cfg.MongoDB.Database)
			syllabusRepo = repository.NewMongoRepo(db.Collection(database.CollectionSyllabi))
			userSvc = users.NewService(users.NewMongoRepository(db.Collection(database.CollectionUsers)))
			if sessionsSvc == nil {
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection(database.CollectionSessions)))
			}
			logger.Infof("connected to MongoDB: %s", cfg.MongoDB.Database)
		}
	}
	if syllabusRepo == nil {
		logger.Warnf("no MongoDB available, using in-memory syllabus storage (data is lost on restart)")
		syllabusRepo = repository.NewMemoryRepo()
	}
	if userSvc == nil {
		userSvc = users.NewService(users.NewMemoryRepository())
	}

	var exports *storage.ExportStore
	if cfg.MinIO.Endpoint != "" {
		exports, err = storage.NewExportStore(&cfg.MinIO)
		if err != nil {
			logger.Warnf("export storage unavailable: %v", err)
			exports = nil
		}
	}

	var authMW gin.HandlerFunc
	if cfg.JWT.Secret != "" {
		authMW = middleware.AuthMiddleware(tokens.NewVerifier(cfg.JWT.Secret))
	} else {
		logger.Warnf("JWT_SECRET not set, admin listing is unguarded")
	}

	handlers.NewAuthHandler(cfg, userSvc, sessionsSvc).Register(r)
	handlers.NewSyllabusHandler(service.New(syllabusRepo), exports).Register(r, authMW)

	// Autosave defaults the editor frontend reads on startup.
	r.GET("/editor/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"autosaveIntervalSeconds": int(cfg.Autosave.Interval.Seconds()),
			"statusResetSeconds":      int(cfg.Autosave.StatusReset.Seconds()),
		})
	})

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("listening on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}
