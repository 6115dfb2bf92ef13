package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// MovieStatus is the position of a movie in its owner's lists
type MovieStatus string

const (
	StatusWantToWatch MovieStatus = "want_to_watch"
	StatusWatched     MovieStatus = "watched"
)

// IsValid reports whether s is a known status
func (s MovieStatus) IsValid() bool {
	return s == StatusWantToWatch || s == StatusWatched
}

// Visibility filters owner-scoped listings
type Visibility int

const (
	// VisibilityAll includes private movies (owner viewing their own list)
	VisibilityAll Visibility = iota
	// VisibilityPublicOnly excludes private movies
	VisibilityPublicOnly
)

// Movie is a single entry in a user's lists
type Movie struct {
	ID        int64       `json:"id"`
	OwnerID   int64       `json:"ownerId"`
	Title     string      `json:"title"`
	Status    MovieStatus `json:"status"`
	AddedAt   time.Time   `json:"addedAt"`
	WatchedAt *time.Time  `json:"watchedAt,omitempty"`
	IsPublic  bool        `json:"isPublic"`
}

// MovieListItem is a row of a single-status listing
type MovieListItem struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"addedAt"`
}

// MovieSummary is a row of the combined listing
type MovieSummary struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Status   MovieStatus `json:"status"`
	AddedAt  time.Time   `json:"addedAt"`
	IsPublic bool        `json:"isPublic"`
}

// PublicFeedEntry is a public movie joined with its owner's display data.
// Username and FirstName are empty when the owner has no users row.
type PublicFeedEntry struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Status    MovieStatus `json:"status"`
	AddedAt   time.Time   `json:"addedAt"`
	WatchedAt *time.Time  `json:"watchedAt,omitempty"`
	OwnerID   int64       `json:"ownerId"`
	Username  string      `json:"username,omitempty"`
	FirstName string      `json:"firstName,omitempty"`
}

// MovieRef is the result of a single owner-scoped lookup
type MovieRef struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Status   MovieStatus `json:"status"`
	IsPublic bool        `json:"isPublic"`
}

// MovieCounts holds true per-status totals for one owner
type MovieCounts struct {
	WantToWatch int `json:"wantToWatch"`
	Watched     int `json:"watched"`
}

// Total returns the number of movies across both statuses
func (c MovieCounts) Total() int {
	return c.WantToWatch + c.Watched
}

// NormalizeTitle trims the title and rejects it when nothing is left.
// Length is not limited; presenters truncate long titles for display.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrMovieTitleEmpty
	}
	return title, nil
}

// ParseMovieID parses a user supplied movie id
func ParseMovieID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidMovieID
	}
	return id, nil
}

// MovieRepository defines the interface for movie persistence operations.
// Every owner-scoped operation treats a movie owned by someone else exactly like a missing one.
type MovieRepository interface {
	Create(ctx context.Context, ownerID int64, title string, isPublic bool) (int64, error)
	ListByStatus(ctx context.Context, ownerID int64, status MovieStatus, visibility Visibility) ([]*MovieListItem, error)
	ListAll(ctx context.Context, ownerID int64, visibility Visibility) ([]*MovieSummary, error)
	ListPublicFeed(ctx context.Context) ([]*PublicFeedEntry, error)
	// MarkWatched returns the movie as updated. A missing, foreign or already watched movie yields ErrMovieNotFound.
	MarkWatched(ctx context.Context, ownerID int64, movieID int64) (*MovieRef, error)
	// Delete returns the removed movie, or ErrMovieNotFound when nothing was deleted
	Delete(ctx context.Context, ownerID int64, movieID int64) (*MovieRef, error)
	GetByID(ctx context.Context, ownerID int64, movieID int64) (*MovieRef, error)
	// TogglePrivacy flips is_public and returns the movie as updated
	TogglePrivacy(ctx context.Context, ownerID int64, movieID int64) (*MovieRef, error)
	CountByStatus(ctx context.Context, ownerID int64) (*MovieCounts, error)
}
