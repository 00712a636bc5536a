package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wordstackio/backend/internal/config"
	pgrepo "github.com/wordstackio/backend/internal/repo/postgres"
	redrepo "github.com/wordstackio/backend/internal/repo/redis"
	authsvc "github.com/wordstackio/backend/internal/services/auth"
	feedsvc "github.com/wordstackio/backend/internal/services/feed"
	inksvc "github.com/wordstackio/backend/internal/services/ink"
	paymentsvc "github.com/wordstackio/backend/internal/services/payments"
	poemsvc "github.com/wordstackio/backend/internal/services/poems"
	poetsvc "github.com/wordstackio/backend/internal/services/poets"
	postsvc "github.com/wordstackio/backend/internal/services/posts"
	ratesvc "github.com/wordstackio/backend/internal/services/rate"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	poemRepo := pgrepo.NewPoemRepo(pool)
	postRepo := pgrepo.NewCommunityPostRepo(pool)
	followRepo := pgrepo.NewFollowRepo(pool)
	inkUsageRepo := pgrepo.NewInkUsageRepo(pool)
	inkSupportRepo := pgrepo.NewInkSupportRepo(pool)
	walletRepo := pgrepo.NewWalletRepo(pool)
	purchaseRepo := pgrepo.NewPurchaseRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, cfg.Auth.RefreshTTL)

	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Ink.SupportMaxPerMinute,
		cfg.Ink.SupportMaxPer10Sec,
	)

	inkService := inksvc.NewService(inksvc.Dependencies{
		Pool:        pool,
		Usage:       inkUsageRepo,
		Wallets:     walletRepo,
		Supports:    inkSupportRepo,
		Poems:       poemRepo,
		RateLimiter: rateLimiter,
	}, inksvc.Config{
		DailyFreeCap:     cfg.Ink.DailyFreeCap,
		MonthlyFreeCap:   cfg.Ink.MonthlyFreeCap,
		MaxSupportAmount: cfg.Ink.MaxSupportAmount,
		Timezone:         cfg.Ink.Timezone,
	})

	feedService := feedsvc.NewService(poemRepo, postRepo, followRepo, feedsvc.Config{
		DefaultPageSize: cfg.Feed.DefaultPageSize,
		MaxPageSize:     cfg.Feed.MaxPageSize,
	})

	poemService := poemsvc.NewService(poemRepo)
	postService := postsvc.NewService(postRepo)
	poetService := poetsvc.NewService(userRepo, followRepo, inkSupportRepo)

	paymentService := paymentsvc.NewService(paymentsvc.Dependencies{
		Pool:      pool,
		Purchases: purchaseRepo,
		Wallets:   walletRepo,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		FeedService:    feedService,
		InkService:     inkService,
		PaymentService: paymentService,
		PoemService:    poemService,
		PoetService:    poetService,
		PostService:    postService,
		WalletRepo:     walletRepo,
		Logger:         log,
		Config:         cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
