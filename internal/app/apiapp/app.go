package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/harryrismananda/lingohub/backend/internal/config"
	aiinfra "github.com/harryrismananda/lingohub/backend/internal/infra/ai"
	googleinfra "github.com/harryrismananda/lingohub/backend/internal/infra/google"
	"github.com/harryrismananda/lingohub/backend/internal/infra/httpclient"
	paymentinfra "github.com/harryrismananda/lingohub/backend/internal/infra/payment"
	s3infra "github.com/harryrismananda/lingohub/backend/internal/infra/s3"
	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	redrepo "github.com/harryrismananda/lingohub/backend/internal/repo/redis"
	authsvc "github.com/harryrismananda/lingohub/backend/internal/services/auth"
	catalogsvc "github.com/harryrismananda/lingohub/backend/internal/services/catalog"
	contentsvc "github.com/harryrismananda/lingohub/backend/internal/services/content"
	entsvc "github.com/harryrismananda/lingohub/backend/internal/services/entitlements"
	mediasvc "github.com/harryrismananda/lingohub/backend/internal/services/media"
	paymentssvc "github.com/harryrismananda/lingohub/backend/internal/services/payments"
	progresssvc "github.com/harryrismananda/lingohub/backend/internal/services/progress"
	userssvc "github.com/harryrismananda/lingohub/backend/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
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
	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	languageRepo := pgrepo.NewLanguageRepo(pool)
	courseRepo := pgrepo.NewCourseRepo(pool)
	questionRepo := pgrepo.NewQuestionRepo(pool)
	progressRepo := pgrepo.NewProgressRepo(pool)
	transactionRepo := pgrepo.NewTransactionRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, cfg.Auth.RefreshTTL)
	if cfg.Google.ClientID != "" {
		verifier := googleinfra.NewVerifier(cfg.Google.ClientID, cfg.Google.Timeout, httpclient.New(cfg.Google.Timeout))
		authService.AttachGoogleVerifier(verifier)
	} else {
		log.Warn("google client id is empty, google login disabled")
	}

	catalogService := catalogsvc.NewService(languageRepo, courseRepo, questionRepo)
	entitlementService := entsvc.NewService(userRepo)
	progressService := progresssvc.NewService(progressRepo, languageRepo)

	var contentService *contentsvc.Service
	if generator, err := aiinfra.NewGenerator(aiinfra.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, httpclient.New(cfg.AI.Timeout)); err != nil {
		log.Warn("content generator init failed, question generation disabled", zap.Error(err))
	} else {
		contentService = contentsvc.NewService(generator, courseRepo, languageRepo, questionRepo)
	}

	var paymentService *paymentssvc.Service
	if gateway, err := paymentinfra.NewClient(paymentinfra.Config{
		BaseURL:   cfg.Payment.BaseURL,
		ServerKey: cfg.Payment.ServerKey,
		Timeout:   cfg.Payment.Timeout,
	}, httpclient.New(cfg.Payment.Timeout)); err != nil {
		log.Warn("payment gateway init failed, continuing in degraded mode", zap.Error(err))
		paymentService = paymentssvc.NewService(transactionRepo, userRepo, nil, cfg.Payment.Currency, cfg.Payment.PremiumPrice)
	} else {
		paymentService = paymentssvc.NewService(transactionRepo, userRepo, gateway, cfg.Payment.Currency, cfg.Payment.PremiumPrice)
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}
	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	userService := userssvc.NewService(userRepo, profileRepo, mediaStorage)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:        authService,
		CatalogService:     catalogService,
		ContentService:     contentService,
		EntitlementService: entitlementService,
		PaymentService:     paymentService,
		ProgressService:    progressService,
		UserService:        userService,
		Logger:             log,
		Config:             cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
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
