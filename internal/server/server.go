package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecochef/ecochef/backend/config"
	"github.com/ecochef/ecochef/backend/internal/api"
	"github.com/ecochef/ecochef/backend/internal/database"
	"github.com/ecochef/ecochef/backend/internal/middleware"
	"github.com/ecochef/ecochef/backend/internal/router"
	"github.com/ecochef/ecochef/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	http    *http.Server
	logger  *zap.Logger
	cleanup []func(ctx context.Context) error
}

// New connects to every backing service and assembles the HTTP handlers.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := stores.Migrate(ctx); err != nil {
		_ = stores.Close(ctx)
		return nil, err
	}

	redisClient, err := database.NewRedisClient(ctx, cfg, logger)
	if err != nil {
		_ = stores.Close(ctx)
		return nil, err
	}

	generator, err := NewGenerator(ctx, cfg, logger)
	if err != nil {
		_ = redisClient.Close()
		_ = stores.Close(ctx)
		return nil, err
	}

	engine, err := newRouter(cfg, stores, redisClient, generator, logger)
	if err != nil {
		_ = redisClient.Close()
		_ = stores.Close(ctx)
		return nil, err
	}

	s := newServer(cfg.Addr(), engine, logger)
	s.cleanup = append(s.cleanup,
		func(context.Context) error { return redisClient.Close() },
		stores.Close,
	)
	return s, nil
}

func newServer(addr string, engine *gin.Engine, logger *zap.Logger) *Server {
	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func newRouter(cfg *config.Config, stores *Stores, redisClient *redis.Client, generator service.RecipeGenerator, logger *zap.Logger) (*gin.Engine, error) {
	prompts, err := service.NewPromptFormatter()
	if err != nil {
		return nil, err
	}

	authService := service.NewAuthService(stores.Users, service.NewRedisTokenDenylist(redisClient), cfg.JWTSecret, cfg.AdminEmail)
	emailService := service.NewEmailService(service.EmailConfig{
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
		From:         cfg.EmailFrom,
		AdminEmail:   cfg.AdminEmail,
	}, logger)
	generationService := service.NewGenerationService(generator, prompts, stores.Recipes, service.NewRedisDraftStore(redisClient), logger)
	recipeService := service.NewRecipeService(stores.Recipes, generator, prompts, service.NewRedisSummaryCache(redisClient), logger)
	feedbackService := service.NewFeedbackService(stores.Recipes, emailService, logger)

	return router.SetupRouter(router.Dependencies{
		Auth:       api.NewAuthHandler(authService, logger),
		LLM:        api.NewLLMHandler(generationService, service.NewFinetuneService(), logger),
		Recipes:    api.NewRecipeHandler(recipeService, logger),
		Feedback:   api.NewFeedbackHandler(feedbackService, logger),
		Validator:  authService,
		GuestQuota: middleware.NewGuestGenerationLimiter(redisClient, cfg.GuestGenerationLimit, logger),
		Health: map[string]api.Pinger{
			"database": stores.Recipes,
			"redis": api.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		},
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	}), nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	s.close()
	return err
}

func (s *Server) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, fn := range s.cleanup {
		if err := fn(ctx); err != nil {
			s.logger.Warn("cleanup failed", zap.Error(err))
		}
	}
}
