package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"movie-review/internal/config"
	"movie-review/internal/repository/sqlite"
	"movie-review/internal/storage"
	"movie-review/internal/tmdb"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.TMDB.APIKey) == "" {
		logger.Fatalf("tmdb api key is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	genreRepo := sqlite.NewGenreRepository(db)
	movieRepo := sqlite.NewMovieRepository(db)

	if err := genreRepo.Init(ctx); err != nil {
		logger.Fatalf("init genre repository: %v", err)
	}
	if err := movieRepo.Init(ctx); err != nil {
		logger.Fatalf("init movie repository: %v", err)
	}

	client := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseAPIURL, cfg.TMDB.BaseImageURL)
	media := storage.NewLocalService(cfg.Media.Dir)

	importer := tmdb.NewImporter(client, genreRepo, movieRepo, media, logger)
	if err := importer.Run(ctx, cfg.TMDB.StartSearchPage, cfg.TMDB.MaxSearchPage); err != nil {
		logger.Fatalf("import: %v", err)
	}

	logger.Info("all done")
}
