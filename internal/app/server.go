// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fitcoach-service/internal/authapi"
	"fitcoach-service/internal/config"
	"fitcoach-service/internal/db"
	authHandler "fitcoach-service/internal/handlers/auth"
	bookingHandler "fitcoach-service/internal/handlers/booking"
	clientHandler "fitcoach-service/internal/handlers/client"
	workoutHandler "fitcoach-service/internal/handlers/workout"
	wsHandler "fitcoach-service/internal/handlers/ws"
	"fitcoach-service/internal/middleware"
	"fitcoach-service/internal/pkg/jwt"
	"fitcoach-service/internal/pkg/session"
	"fitcoach-service/internal/repository/postgres"
	authUsecase "fitcoach-service/internal/service/auth"
	bookingUsecase "fitcoach-service/internal/service/booking"
	clientUsecase "fitcoach-service/internal/service/client"
	workoutUsecase "fitcoach-service/internal/service/workout"
	"fitcoach-service/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	http   *http.Server

	pool        *pgxpool.Pool
	redisClient *redis.Client
	stopRefresh func()
	cancelHub   context.CancelFunc
}

func NewServer() (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		cfg:    cfg,
		engine: gin.New(),
	}, nil
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	var logger *zap.Logger
	var err error
	if s.cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redisClient = redisClient
	logger.Info("connected to redis", zap.String("addr", s.cfg.RedisAddr))

	// ----- Auth capability -----
	storage := authapi.NewRedisStorage(redisClient, "", 0)
	api := authapi.NewHTTPClient(authapi.Config{
		BaseURL: s.cfg.AuthURL,
		APIKey:  s.cfg.AuthAnonKey,
	}, storage, logger)

	// ----- Session coordination -----
	coordinator := session.NewCoordinator(api, logNavigator{logger}, logger, session.CoordinatorConfig{
		RefreshThreshold: s.cfg.RefreshThreshold,
	})
	s.stopRefresh = coordinator.SetupAutoRefresh()

	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Token verification -----
	verifier := jwt.NewVerifier([]byte(s.cfg.AuthJWTSecret), "authenticated")

	// ----- WebSocket hub -----
	hub := ws.NewHub(verifier, logger)
	hubCtx, cancelHub := context.WithCancel(context.Background())
	s.cancelHub = cancelHub
	go hub.Run(hubCtx)

	// ----- Repositories -----
	clientRepo := postgres.NewClientRepository(pool)
	workoutRepo := postgres.NewWorkoutRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)

	// ----- Services -----
	authService := authUsecase.NewAuthService(api, coordinator, rateLimiter, logger)
	clientService := clientUsecase.NewClientService(clientRepo, logger)
	workoutService := workoutUsecase.NewWorkoutService(workoutRepo, clientRepo, logger)
	bookingService := bookingUsecase.NewBookingService(bookingRepo, clientRepo, hub, logger)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:    authHandler.NewAuthHandler(authService, logger),
		OAuthHandler:   authHandler.NewOAuthHandler(api, "/auth/login", s.cfg.SignInRedirect, logger),
		ClientHandler:  clientHandler.NewClientHandler(clientService, logger),
		WorkoutHandler: workoutHandler.NewWorkoutHandler(workoutService, logger),
		BookingHandler: bookingHandler.NewBookingHandler(bookingService, logger),
		WSHandler:      wsHandler.NewWSHandler(hub, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(verifier),
		AccessGate:     middleware.NewAccessGate(api, session.DefaultRoutes(), "/auth/login", logger),
	}

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, logger, handlers)

	s.http = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener and releases pools.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.stopRefresh != nil {
		s.stopRefresh()
	}
	if s.cancelHub != nil {
		s.cancelHub()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.logger != nil {
		s.logger.Sync()
	}
	return err
}

// logNavigator satisfies the coordinator's redirect hook for background
// refresh, where there is no request to redirect.
type logNavigator struct {
	logger *zap.Logger
}

func (n logNavigator) RedirectTo(url string) {
	n.logger.Info("session expired, login redirect target", zap.String("url", url))
}
