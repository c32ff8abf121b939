package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"owl-care/owl-common/database"
	rediscommon "owl-care/owl-common/redis"
	"owl-care/owl-greeter/internal/config"
	"owl-care/owl-greeter/internal/geo"
	httpapi "owl-care/owl-greeter/internal/http"
	"owl-care/owl-greeter/internal/i18n"
	"owl-care/owl-greeter/internal/sender"
	"owl-care/owl-greeter/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// GreeterService wires the geo source, optional cache, sender and HTTP server
type GreeterService struct {
	config      *config.Config
	db          *sql.DB
	redisClient *redis.Client
	sender      *sender.MessageSender
	server      *Server
	logger      *zap.Logger
}

// NewGreeterService builds the geo source, optional cache, sender and router
func NewGreeterService(cfg *config.Config, logger *zap.Logger) (*GreeterService, error) {
	s := &GreeterService{config: cfg, logger: logger}

	geoService, err := s.buildGeoService()
	if err != nil {
		s.Stop()
		return nil, err
	}

	s.sender = sender.NewMessageSender(geoService, i18n.NewStaticService(), logger)

	router := httpapi.NewRouter(logger)
	router.RegisterGreetingRoutes(httpapi.NewGreetingHandler(s.sender, logger))
	router.RegisterOpsRoutes()
	s.server = NewServer(cfg.HTTP.Addr, router, logger)

	return s, nil
}

func (s *GreeterService) buildGeoService() (geo.Service, error) {
	var geoService geo.Service
	switch s.config.Geo.Source {
	case config.GeoSourcePostgres:
		db, err := database.NewPostgresDB(&s.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = db
		geoService = geo.NewPostgresService(db, s.logger)
	default:
		geoService = geo.NewStaticService()
	}

	if !s.config.Geo.Cache.Enabled {
		return geoService, nil
	}

	s.redisClient = rediscommon.NewRedisClient(&s.config.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rediscommon.Ping(ctx, s.redisClient); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.logger.Info("Geo cache enabled", zap.Duration("ttl", s.config.Geo.Cache.TTL))
	return geo.NewCachedService(geoService, store.NewRedisKV(s.redisClient), s.config.Geo.Cache.TTL, s.logger), nil
}

// Start serves HTTP until ctx is cancelled
func (s *GreeterService) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Stop(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Stop releases database and redis connections
func (s *GreeterService) Stop() {
	if err := database.Close(s.db); err != nil {
		s.logger.Warn("Failed to close database", zap.Error(err))
	}
	if err := rediscommon.Close(s.redisClient); err != nil {
		s.logger.Warn("Failed to close redis", zap.Error(err))
	}
}
