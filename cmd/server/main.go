package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"questionbank/internal/cache"
	"questionbank/internal/config"
	"questionbank/internal/handlers"
	"questionbank/internal/jobs"
	"questionbank/internal/metrics"
	"questionbank/internal/middleware"
	"questionbank/internal/query"
	mongorepo "questionbank/internal/repositories/mongo"
	"questionbank/internal/routers"
	"questionbank/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func registerRoutes(router *chi.Mux, questionHandler *handlers.QuestionHandler, subjectHandler *handlers.SubjectHandler, authHandler *handlers.AuthHandler, healthHandler *handlers.HealthHandler, auth *middleware.Authenticator) {
	routers.QuestionRoutes(router, questionHandler, auth)
	routers.SubjectRoutes(router, subjectHandler, auth)
	routers.AuthRoutes(router, authHandler, auth)
	routers.HealthRoutes(router, healthHandler)
}

// connectRedis returns nil when the cache is disabled or unreachable; the
// service then reads answered ids straight from the store.
func connectRedis(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not set, answered cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, answered cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	return rdb
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// logger is not configured yet
		panic(err)
	}

	logger, err := utils.NewLogger(cfg.IsProduction(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// mongo
	mongoClient, err := mongorepo.NewClient(context.Background(), cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	db, err := mongoClient.DB()
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	userRepo := mongorepo.NewUserRepo(db)
	subjectRepo := mongorepo.NewSubjectRepo(db)
	questionRepo := mongorepo.NewQuestionRepo(db)
	answerRepo := mongorepo.NewAnswerRepo(db)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	for _, repo := range []indexer{userRepo, subjectRepo, questionRepo, answerRepo} {
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			logger.Fatal("failed to create indexes", zap.Error(err))
		}
	}
	cancelIndex()

	probes := []jobs.Probe{{Name: "mongo", Check: mongoClient.Ping}}

	var answered handlers.AnsweredCache
	if rdb := connectRedis(cfg.Redis, logger); rdb != nil {
		defer rdb.Close()
		answered = cache.NewAnsweredCache(rdb, cfg.Redis.TTL)
		probes = append(probes, jobs.Probe{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	var probeJob *jobs.DependencyProbeJob
	if cfg.ProbeSchedule != "off" {
		probeJob = jobs.NewDependencyProbeJob(cfg.ProbeSchedule, logger, probes...)
		if err := probeJob.Start(); err != nil {
			logger.Fatal("failed to start dependency probe", zap.Error(err))
		}
	}

	mailer := utils.NewSMTPMailer(utils.SMTPCfg{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Pass:     cfg.SMTP.Pass,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})

	auth := middleware.NewAuthenticator(userRepo, cfg.JWT.Secret, logger)
	questionHandler := handlers.NewQuestionHandler(questionRepo, answerRepo, answered, query.ParseRewriteMode(cfg.OperatorRewrite), logger)
	subjectHandler := handlers.NewSubjectHandler(subjectRepo, logger)
	authHandler := handlers.NewAuthHandler(userRepo, mailer, handlers.AuthConfig{
		Secret:           cfg.JWT.Secret,
		Expire:           cfg.JWT.Expire,
		CookieExpireDays: cfg.JWT.CookieExpireDays,
		SecureCookie:     cfg.IsProduction(),
	}, logger)
	healthHandler := handlers.NewHealthHandler(mongoClient)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(chimw.RequestID, chimw.RealIP, chimw.Logger, chimw.Recoverer, chimw.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	registerRoutes(router, questionHandler, subjectHandler, authHandler, healthHandler, auth)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Question bank API starting", zap.String("addr", serverAddr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Question bank API shutting down...")

	if probeJob != nil {
		probeJob.Stop()
	}

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Question bank API exited")
}
