package service

import (
	"context"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
	"github.com/dafibh/cinelist/cinelist-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Display caps. Totals are always computed over the full data, never over a capped slice.
const (
	MyListsWantCap     = 15
	MyListsWatchedCap  = 10
	AllMoviesCap       = 20
	FeedGroupingCap    = 50
	FeedRecentCap      = 10
	OverviewActionsCap = 3
)

// AnonymousName labels public feed owners without a display name
const AnonymousName = "Anonymous"

// MovieService handles movie list business logic
type MovieService struct {
	movieRepo      domain.MovieRepository
	userRepo       domain.UserRepository
	eventPublisher websocket.EventPublisher
}

// NewMovieService creates a new MovieService
func NewMovieService(movieRepo domain.MovieRepository, userRepo domain.UserRepository) *MovieService {
	return &MovieService{
		movieRepo: movieRepo,
		userRepo:  userRepo,
	}
}

// SetEventPublisher sets the event publisher for public feed updates
func (s *MovieService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a feed event if a publisher is configured
func (s *MovieService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// feedMovie is the public feed event payload. It never carries the owner id.
type feedMovie struct {
	ID       int64              `json:"id"`
	Title    string             `json:"title,omitempty"`
	Status   domain.MovieStatus `json:"status,omitempty"`
	IsPublic bool               `json:"isPublic"`
}

// MyLists is the result of ShowMine
type MyLists struct {
	WantToWatch []*domain.MovieListItem
	Watched     []*domain.MovieListItem
	Counts      domain.MovieCounts
}

// WatchedList is the result of ShowWatched
type WatchedList struct {
	Movies []*domain.MovieListItem
}

// AllMovies is the result of ShowAll
type AllMovies struct {
	Movies []*domain.MovieSummary
	// Hidden is the number of movies beyond the display cap
	Hidden int
	Counts domain.MovieCounts
}

// FeedGroup tallies one display name's public movies
type FeedGroup struct {
	Name        string
	Total       int
	WantToWatch int
	Watched     int
}

// PublicFeed is the result of ShowPublicFeed
type PublicFeed struct {
	Groups       []FeedGroup
	Recent       []*domain.PublicFeedEntry
	Total        int
	WantToWatch  int
	Watched      int
	Participants int
}

// ListsOverview is the result of Overview
type ListsOverview struct {
	Counts      domain.MovieCounts
	WantToWatch []*domain.MovieListItem
	Watched     []*domain.MovieListItem
}

// PrivacyChange is the result of TogglePrivacy
type PrivacyChange struct {
	Movie    *domain.MovieRef
	IsPublic bool
}

// RegisterUser records the sender on every inbound event. Existing rows are left as they are.
func (s *MovieService) RegisterUser(ctx context.Context, user *domain.User) error {
	return s.userRepo.Upsert(ctx, user)
}

// AddMovie adds a public want-to-watch movie
func (s *MovieService) AddMovie(ctx context.Context, ownerID int64, title string) (*domain.MovieRef, error) {
	title, err := domain.NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	id, err := s.movieRepo.Create(ctx, ownerID, title, true)
	if err != nil {
		return nil, err
	}

	movie := &domain.MovieRef{
		ID:       id,
		Title:    title,
		Status:   domain.StatusWantToWatch,
		IsPublic: true,
	}

	log.Info().Int64("owner_id", ownerID).Int64("movie_id", id).Str("title", title).Msg("Movie added")
	s.publishEvent(websocket.MovieCreated(feedMovie{ID: id, Title: title, Status: movie.Status, IsPublic: true}))

	return movie, nil
}

// ShowMine returns both of the owner's lists capped for display, with true totals
func (s *MovieService) ShowMine(ctx context.Context, ownerID int64) (*MyLists, error) {
	want, err := s.movieRepo.ListByStatus(ctx, ownerID, domain.StatusWantToWatch, domain.VisibilityAll)
	if err != nil {
		return nil, err
	}
	watched, err := s.movieRepo.ListByStatus(ctx, ownerID, domain.StatusWatched, domain.VisibilityAll)
	if err != nil {
		return nil, err
	}

	return &MyLists{
		WantToWatch: capItems(want, MyListsWantCap),
		Watched:     capItems(watched, MyListsWatchedCap),
		Counts:      domain.MovieCounts{WantToWatch: len(want), Watched: len(watched)},
	}, nil
}

// ShowWatched returns every watched movie of the owner
func (s *MovieService) ShowWatched(ctx context.Context, ownerID int64) (*WatchedList, error) {
	watched, err := s.movieRepo.ListByStatus(ctx, ownerID, domain.StatusWatched, domain.VisibilityAll)
	if err != nil {
		return nil, err
	}
	return &WatchedList{Movies: watched}, nil
}

// ShowAll returns the combined list capped for display. Counts come from a separate count query.
func (s *MovieService) ShowAll(ctx context.Context, ownerID int64) (*AllMovies, error) {
	movies, err := s.movieRepo.ListAll(ctx, ownerID, domain.VisibilityAll)
	if err != nil {
		return nil, err
	}
	counts, err := s.movieRepo.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := &AllMovies{Movies: movies, Counts: *counts}
	if len(movies) > AllMoviesCap {
		result.Movies = movies[:AllMoviesCap]
		result.Hidden = len(movies) - AllMoviesCap
	}
	return result, nil
}

// ShowPublicFeed aggregates the cross-owner public feed
func (s *MovieService) ShowPublicFeed(ctx context.Context) (*PublicFeed, error) {
	entries, err := s.movieRepo.ListPublicFeed(ctx)
	if err != nil {
		return nil, err
	}

	feed := &PublicFeed{Total: len(entries)}

	owners := make(map[int64]struct{})
	for _, e := range entries {
		owners[e.OwnerID] = struct{}{}
		if e.Status == domain.StatusWatched {
			feed.Watched++
		} else {
			feed.WantToWatch++
		}
	}
	feed.Participants = len(owners)

	// Groups keep the order in which names first appear in the newest-first feed.
	index := make(map[string]int)
	grouped := entries
	if len(grouped) > FeedGroupingCap {
		grouped = grouped[:FeedGroupingCap]
	}
	for _, e := range grouped {
		name := FeedDisplayName(e)
		i, ok := index[name]
		if !ok {
			i = len(feed.Groups)
			index[name] = i
			feed.Groups = append(feed.Groups, FeedGroup{Name: name})
		}
		feed.Groups[i].Total++
		if e.Status == domain.StatusWatched {
			feed.Groups[i].Watched++
		} else {
			feed.Groups[i].WantToWatch++
		}
	}

	feed.Recent = entries
	if len(feed.Recent) > FeedRecentCap {
		feed.Recent = feed.Recent[:FeedRecentCap]
	}
	return feed, nil
}

// Overview returns the owner's counts and the newest few movies of each list
func (s *MovieService) Overview(ctx context.Context, ownerID int64) (*ListsOverview, error) {
	want, err := s.movieRepo.ListByStatus(ctx, ownerID, domain.StatusWantToWatch, domain.VisibilityAll)
	if err != nil {
		return nil, err
	}
	watched, err := s.movieRepo.ListByStatus(ctx, ownerID, domain.StatusWatched, domain.VisibilityAll)
	if err != nil {
		return nil, err
	}

	return &ListsOverview{
		Counts:      domain.MovieCounts{WantToWatch: len(want), Watched: len(watched)},
		WantToWatch: capItems(want, OverviewActionsCap),
		Watched:     capItems(watched, OverviewActionsCap),
	}, nil
}

// MarkWatched moves a movie to the watched list.
// A missing, foreign or already watched movie is reported as ErrMovieNotFound.
func (s *MovieService) MarkWatched(ctx context.Context, ownerID int64, movieID int64) (*domain.MovieRef, error) {
	movie, err := s.movieRepo.MarkWatched(ctx, ownerID, movieID)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("owner_id", ownerID).Int64("movie_id", movieID).Msg("Movie marked as watched")
	if movie.IsPublic {
		s.publishEvent(websocket.MovieWatched(feedMovie{ID: movie.ID, Title: movie.Title, Status: movie.Status, IsPublic: true}))
	}

	return movie, nil
}

// DeleteMovie hard-deletes a movie. Feed subscribers only hear about public ones.
func (s *MovieService) DeleteMovie(ctx context.Context, ownerID int64, movieID int64) error {
	movie, err := s.movieRepo.Delete(ctx, ownerID, movieID)
	if err != nil {
		return err
	}

	log.Info().Int64("owner_id", ownerID).Int64("movie_id", movieID).Msg("Movie deleted")
	if movie.IsPublic {
		s.publishEvent(websocket.MovieDeleted(feedMovie{ID: movie.ID}))
	}
	return nil
}

// TogglePrivacy flips a movie between public and private.
// rawID is parsed before any store call; a non-integer id yields ErrInvalidMovieID.
func (s *MovieService) TogglePrivacy(ctx context.Context, ownerID int64, rawID string) (*PrivacyChange, error) {
	movieID, err := domain.ParseMovieID(rawID)
	if err != nil {
		return nil, err
	}
	return s.TogglePrivacyByID(ctx, ownerID, movieID)
}

// TogglePrivacyByID flips a movie between public and private
func (s *MovieService) TogglePrivacyByID(ctx context.Context, ownerID int64, movieID int64) (*PrivacyChange, error) {
	movie, err := s.movieRepo.TogglePrivacy(ctx, ownerID, movieID)
	if err != nil {
		return nil, err
	}
	isPublic := movie.IsPublic

	log.Info().Int64("owner_id", ownerID).Int64("movie_id", movieID).Bool("is_public", isPublic).Msg("Movie privacy changed")

	payload := feedMovie{ID: movie.ID, IsPublic: isPublic}
	if isPublic {
		payload.Title = movie.Title
		payload.Status = movie.Status
	}
	s.publishEvent(websocket.MoviePrivacyChanged(payload))

	return &PrivacyChange{Movie: movie, IsPublic: isPublic}, nil
}

// FeedDisplayName returns the name a public feed entry is grouped and shown under
func FeedDisplayName(e *domain.PublicFeedEntry) string {
	if e.FirstName != "" {
		return e.FirstName
	}
	return AnonymousName
}

func capItems(items []*domain.MovieListItem, limit int) []*domain.MovieListItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
