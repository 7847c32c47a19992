package tmdb

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"movie-review/internal/domain"
	"movie-review/internal/repository"
	"movie-review/internal/storage"
)

// Importer pulls movie metadata from TMDB and loads it into the same
// stores the API serves from. Movies and genres already present (by
// external id) are skipped.
type Importer struct {
	client *Client
	genres repository.GenreRepository
	movies repository.MovieRepository
	media  storage.Service
	logger logrus.FieldLogger
}

func NewImporter(
	client *Client,
	genres repository.GenreRepository,
	movies repository.MovieRepository,
	media storage.Service,
	logger logrus.FieldLogger,
) *Importer {
	return &Importer{
		client: client,
		genres: genres,
		movies: movies,
		media:  media,
		logger: logger,
	}
}

// Run imports genres and the discover pages in [startPage, maxPage].
func (im *Importer) Run(ctx context.Context, startPage, maxPage int) error {
	if err := im.importGenres(ctx); err != nil {
		return err
	}

	var results []MovieResult
	for page := startPage; page <= maxPage; page++ {
		im.logger.Infof("fetching discover page %d", page)
		pageResults, err := im.client.DiscoverMovies(ctx, page)
		if err != nil {
			return err
		}
		results = append(results, pageResults...)
	}

	imported := 0
	for i := range results {
		ok, err := im.importMovie(ctx, &results[i])
		if err != nil {
			return err
		}
		if ok {
			imported++
		}
	}
	im.logger.Infof("imported %d of %d movies", imported, len(results))
	return nil
}

func (im *Importer) importGenres(ctx context.Context) error {
	im.logger.Info("fetching genres")
	genres, err := im.client.Genres(ctx)
	if err != nil {
		return err
	}

	for _, genre := range genres {
		exists, err := im.genres.ExistsByExternalID(ctx, genre.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := im.genres.Create(ctx, &domain.Genre{ExternalID: genre.ID, Name: genre.Name}); err != nil {
			return fmt.Errorf("insert genre %q: %w", genre.Name, err)
		}
		im.logger.Infof("inserted genre %s", genre.Name)
	}
	return nil
}

func (im *Importer) importMovie(ctx context.Context, result *MovieResult) (bool, error) {
	exists, err := im.movies.ExistsByExternalID(ctx, result.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cast, err := im.client.MovieCast(ctx, result.ID)
	if err != nil {
		return false, err
	}
	names := make([]string, len(cast))
	for i, member := range cast {
		names[i] = member.Name
	}

	runtime, err := im.client.MovieRuntime(ctx, result.ID)
	if err != nil {
		return false, err
	}

	releaseDate, err := time.Parse("2006-01-02", result.ReleaseDate)
	if err != nil {
		im.logger.Warnf("movie %q: bad release date %q, skipping", result.Title, result.ReleaseDate)
		return false, nil
	}

	posterURL := ""
	if result.PosterPath != "" {
		poster, err := im.client.DownloadPoster(ctx, result.PosterPath)
		if err != nil {
			im.logger.Warnf("movie %q: download poster: %v", result.Title, err)
		} else {
			posterURL, err = im.media.SaveImage(ctx, storage.PosterImageDir, path.Base(result.PosterPath), bytes.NewReader(poster))
			if err != nil {
				return false, err
			}
		}
	}

	genreIDs, err := im.genres.IDsByExternalIDs(ctx, result.GenreIDs)
	if err != nil {
		return false, err
	}

	movie := &domain.Movie{
		ExternalID:     result.ID,
		Title:          result.Title,
		Overview:       result.Overview,
		Cast:           strings.Join(names, ", "),
		Runtime:        runtime,
		ReleaseDate:    releaseDate,
		PosterImageURL: posterURL,
	}
	if _, err := im.movies.Create(ctx, movie, genreIDs); err != nil {
		return false, fmt.Errorf("insert movie %q: %w", result.Title, err)
	}
	im.logger.Infof("imported movie %s", result.Title)
	return true, nil
}
