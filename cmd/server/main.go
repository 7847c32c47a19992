package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"movie-review/internal/auth"
	"movie-review/internal/config"
	apphttp "movie-review/internal/http"
	"movie-review/internal/repository/sqlite"
	"movie-review/internal/service"
	"movie-review/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	genreRepo := sqlite.NewGenreRepository(db)
	movieRepo := sqlite.NewMovieRepository(db)
	reviewRepo := sqlite.NewReviewRepository(db)
	likeRepo := sqlite.NewReviewLikeRepository(db)

	for name, init := range map[string]func(context.Context) error{
		"users":        userRepo.Init,
		"genres":       genreRepo.Init,
		"movies":       movieRepo.Init,
		"reviews":      reviewRepo.Init,
		"review likes": likeRepo.Init,
	} {
		if err := init(ctx); err != nil {
			logger.Fatalf("init %s repository: %v", name, err)
		}
	}

	media, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	accessTTL := time.Duration(cfg.Auth.AccessTTLMinutes) * time.Minute
	refreshTTL := time.Duration(cfg.Auth.RefreshTTLHours) * time.Hour

	tokens := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), accessTTL, refreshTTL)
	authSvc := auth.NewService(userRepo, tokens, logger)

	userService := service.NewUserService(userRepo, authSvc, media)
	movieService := service.NewMovieService(movieRepo, media)
	reviewService := service.NewReviewService(reviewRepo, media)
	likeService := service.NewLikeService(likeRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		authSvc,
		userService,
		movieService,
		reviewService,
		likeService,
		accessTTL,
		refreshTTL,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Backend != "s3" {
		logger.Infof("using local media dir %s", cfg.Media.Dir)
		return storage.NewLocalService(cfg.Media.Dir), nil
	}

	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix), nil
}
