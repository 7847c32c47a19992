package domain

import "time"

// Genre is a movie genre, keyed externally by its TMDB id.
type Genre struct {
	ID         int64
	ExternalID int64
	Name       string
	CreatedAt  time.Time
}

// Movie represents a film tracked by the system. ExternalID is the
// TMDB identifier for crawled movies and zero for hand-created ones.
type Movie struct {
	ID             int64
	ExternalID     int64
	Title          string
	Overview       string
	Cast           string
	Runtime        int
	ReleaseDate    time.Time
	PosterImageURL string
	Genres         []Genre
	CreatedAt      time.Time
}
