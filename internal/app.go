package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"socialmedia-api/config"
	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/application/services"
	"socialmedia-api/internal/infrastructure/db/postgres"
	"socialmedia-api/internal/infrastructure/db/postgres/media"
	"socialmedia-api/internal/infrastructure/db/postgres/post"
	"socialmedia-api/internal/infrastructure/db/postgres/session"
	"socialmedia-api/internal/infrastructure/db/postgres/user"
	"socialmedia-api/internal/infrastructure/disk"
	"socialmedia-api/internal/infrastructure/inspect"
	"socialmedia-api/internal/infrastructure/jwt"
	"socialmedia-api/internal/infrastructure/metrics"
	"socialmedia-api/internal/infrastructure/mq"
	"socialmedia-api/internal/infrastructure/s3"
	"socialmedia-api/internal/interface/api/rest"
	"socialmedia-api/internal/interface/api/rest/middleware"
	"socialmedia-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	blobs      ports.BlobStore
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
	sweeper    ports.MediaSweeper
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))
	r.MaxMultipartMemory = cfg.Media.MaxSize

	// httpServer
	httpSrv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// blobs
	blobs, err := NewBlobStore(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("failed to open blob store", zap.Error(err))
	}

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	//rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = rmqConsumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}

	return &App{
		logger:     logger,
		cfg:        cfg,
		db:         dbPool,
		blobs:      blobs,
		httpSrv:    httpSrv,
		router:     r,
		mCounter:   mCounter,
		mq:         rbMQ,
		mqConsumer: rmqConsumer,
	}, nil
}

// NewBlobStore opens the configured Blob Store backend.
func NewBlobStore(ctx context.Context, logger *zap.Logger, cfg config.Config) (ports.BlobStore, error) {
	switch cfg.Blob.Backend {
	case config.BlobBackendS3:
		return s3.New(ctx, logger, cfg.S3)
	case config.BlobBackendDisk:
		return disk.New(logger, cfg.Blob.Root)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Blob.Backend)
	}
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	// "errgroup" instead of "WaitGroup" because:
	// - allows return an error from gorutine
	// - group errors from multiple gorutines into one
	// - wg.Add(1), wg.Done() - automatically under the hood, so never catch deadlock if you forget something ;-)
	// - allows orchestration of parallel processes through the context.Context(gracefull shut down)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.App.Host+":"+a.cfg.App.Port))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	g.Go(func() error {
		a.mqConsumer.DeliveryWorker(ctx)
		return nil
	})

	if a.sweeper != nil {
		g.Go(func() error {
			a.sweeper.Run(ctx, a.cfg.Media.SweepEvery)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)
	postRepo := post.NewRepository(a.db)
	sessionRepo := session.NewRepository(a.db)
	mediaRepo := media.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	authService := services.NewAuthService(jwtService, sessionRepo, a.mCounter, a.cfg.App.TokenTTL)
	mediaService := services.NewMediaService(mediaRepo, a.blobs, inspect.New(), a.mq, a.mCounter, a.logger, a.cfg.Media)
	postService := services.NewPostService(postRepo, mediaService, a.mq, a.mCounter, a.logger)
	userService := services.NewUserService(
		userRepo, postRepo, sessionRepo, mediaRepo, mediaService, a.mq, a.mCounter, a.logger,
	)
	a.sweeper = services.NewMediaSweeper(mediaRepo, a.blobs, a.mCounter, a.logger, a.cfg.Media)

	// controllers
	rest.NewAuthController(a.router, a.logger, userService, authService)
	rest.NewUserController(a.router, userService, a.logger, authService)
	rest.NewMediaController(a.router, mediaService, a.logger, authService)
	rest.NewPostController(a.router, postService, a.logger, authService)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
