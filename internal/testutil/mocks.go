package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
	"github.com/dafibh/cinelist/cinelist-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users     map[int64]*domain.User
	UpsertErr error
	mu        sync.RWMutex
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[int64]*domain.User),
	}
}

// Upsert inserts the user if absent
func (m *MockUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[user.ID]; ok {
		return nil
	}
	copied := *user
	m.Users[user.ID] = &copied
	return nil
}

// Get returns a stored user (helper for tests)
func (m *MockUserRepository) Get(id int64) (*domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.Users[id]
	return user, ok
}

// MockMovieRepository is an in-memory implementation of domain.MovieRepository.
// When Users is set, ListPublicFeed joins display names from it.
type MockMovieRepository struct {
	Movies map[int64]*domain.Movie
	Users  *MockUserRepository
	NextID int64
	// Calls counts every repository call, for asserting that no store access happened
	Calls int
	// Err, when set, is returned by every call
	Err error
	// Now supplies timestamps; successive calls must be strictly increasing for stable ordering
	Now func() time.Time
	mu  sync.Mutex
}

// NewMockMovieRepository creates a new MockMovieRepository
func NewMockMovieRepository() *MockMovieRepository {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	return &MockMovieRepository{
		Movies: make(map[int64]*domain.Movie),
		NextID: 1,
		Now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		},
	}
}

func (m *MockMovieRepository) begin() error {
	m.mu.Lock()
	m.Calls++
	if m.Err != nil {
		m.mu.Unlock()
		return m.Err
	}
	return nil
}

// Create inserts a want-to-watch movie
func (m *MockMovieRepository) Create(ctx context.Context, ownerID int64, title string, isPublic bool) (int64, error) {
	if err := m.begin(); err != nil {
		return 0, err
	}
	defer m.mu.Unlock()

	title, err := domain.NormalizeTitle(title)
	if err != nil {
		return 0, err
	}
	id := m.NextID
	m.NextID++
	m.Movies[id] = &domain.Movie{
		ID:       id,
		OwnerID:  ownerID,
		Title:    title,
		Status:   domain.StatusWantToWatch,
		AddedAt:  m.Now(),
		IsPublic: isPublic,
	}
	return id, nil
}

// ListByStatus lists one owner's movies in a status, newest first
func (m *MockMovieRepository) ListByStatus(ctx context.Context, ownerID int64, status domain.MovieStatus, visibility domain.Visibility) ([]*domain.MovieListItem, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	result := make([]*domain.MovieListItem, 0)
	for _, movie := range m.sortedLocked() {
		if movie.OwnerID != ownerID || movie.Status != status {
			continue
		}
		if visibility == domain.VisibilityPublicOnly && !movie.IsPublic {
			continue
		}
		result = append(result, &domain.MovieListItem{ID: movie.ID, Title: movie.Title, AddedAt: movie.AddedAt})
	}
	return result, nil
}

// ListAll lists one owner's movies, newest first
func (m *MockMovieRepository) ListAll(ctx context.Context, ownerID int64, visibility domain.Visibility) ([]*domain.MovieSummary, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	result := make([]*domain.MovieSummary, 0)
	for _, movie := range m.sortedLocked() {
		if movie.OwnerID != ownerID {
			continue
		}
		if visibility == domain.VisibilityPublicOnly && !movie.IsPublic {
			continue
		}
		result = append(result, &domain.MovieSummary{
			ID:       movie.ID,
			Title:    movie.Title,
			Status:   movie.Status,
			AddedAt:  movie.AddedAt,
			IsPublic: movie.IsPublic,
		})
	}
	return result, nil
}

// ListPublicFeed lists public movies across owners, newest first
func (m *MockMovieRepository) ListPublicFeed(ctx context.Context) ([]*domain.PublicFeedEntry, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	result := make([]*domain.PublicFeedEntry, 0)
	for _, movie := range m.sortedLocked() {
		if !movie.IsPublic {
			continue
		}
		entry := &domain.PublicFeedEntry{
			ID:        movie.ID,
			Title:     movie.Title,
			Status:    movie.Status,
			AddedAt:   movie.AddedAt,
			WatchedAt: movie.WatchedAt,
			OwnerID:   movie.OwnerID,
		}
		if m.Users != nil {
			if user, ok := m.Users.Get(movie.OwnerID); ok {
				entry.Username = user.Username
				entry.FirstName = user.FirstName
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

// MarkWatched transitions a want-to-watch movie owned by ownerID
func (m *MockMovieRepository) MarkWatched(ctx context.Context, ownerID int64, movieID int64) (*domain.MovieRef, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	movie, ok := m.Movies[movieID]
	if !ok || movie.OwnerID != ownerID || movie.Status != domain.StatusWantToWatch {
		return nil, domain.ErrMovieNotFound
	}
	now := m.Now()
	movie.Status = domain.StatusWatched
	movie.WatchedAt = &now
	return toRef(movie), nil
}

// Delete removes a movie owned by ownerID
func (m *MockMovieRepository) Delete(ctx context.Context, ownerID int64, movieID int64) (*domain.MovieRef, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	movie, ok := m.Movies[movieID]
	if !ok || movie.OwnerID != ownerID {
		return nil, domain.ErrMovieNotFound
	}
	delete(m.Movies, movieID)
	return toRef(movie), nil
}

// GetByID returns a movie owned by ownerID
func (m *MockMovieRepository) GetByID(ctx context.Context, ownerID int64, movieID int64) (*domain.MovieRef, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	movie, ok := m.Movies[movieID]
	if !ok || movie.OwnerID != ownerID {
		return nil, domain.ErrMovieNotFound
	}
	return toRef(movie), nil
}

// TogglePrivacy flips is_public of a movie owned by ownerID
func (m *MockMovieRepository) TogglePrivacy(ctx context.Context, ownerID int64, movieID int64) (*domain.MovieRef, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	movie, ok := m.Movies[movieID]
	if !ok || movie.OwnerID != ownerID {
		return nil, domain.ErrMovieNotFound
	}
	movie.IsPublic = !movie.IsPublic
	return toRef(movie), nil
}

func toRef(movie *domain.Movie) *domain.MovieRef {
	return &domain.MovieRef{ID: movie.ID, Title: movie.Title, Status: movie.Status, IsPublic: movie.IsPublic}
}

// CountByStatus counts one owner's movies per status
func (m *MockMovieRepository) CountByStatus(ctx context.Context, ownerID int64) (*domain.MovieCounts, error) {
	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	var counts domain.MovieCounts
	for _, movie := range m.Movies {
		if movie.OwnerID != ownerID {
			continue
		}
		if movie.Status == domain.StatusWatched {
			counts.Watched++
		} else {
			counts.WantToWatch++
		}
	}
	return &counts, nil
}

// AddMovie adds a movie to the mock repository (helper for tests)
func (m *MockMovieRepository) AddMovie(movie *domain.Movie) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if movie.ID == 0 {
		movie.ID = m.NextID
	}
	if movie.ID >= m.NextID {
		m.NextID = movie.ID + 1
	}
	if movie.Status == "" {
		movie.Status = domain.StatusWantToWatch
	}
	if movie.AddedAt.IsZero() {
		movie.AddedAt = m.Now()
	}
	m.Movies[movie.ID] = movie
}

// Get returns a copy of a stored movie (helper for tests)
func (m *MockMovieRepository) Get(id int64) (domain.Movie, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	movie, ok := m.Movies[id]
	if !ok {
		return domain.Movie{}, false
	}
	return *movie, true
}

// Count returns the number of stored movies (helper for tests)
func (m *MockMovieRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Movies)
}

// CallCount returns the number of repository calls made so far
func (m *MockMovieRepository) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockMovieRepository) sortedLocked() []*domain.Movie {
	movies := make([]*domain.Movie, 0, len(m.Movies))
	for _, movie := range m.Movies {
		movies = append(movies, movie)
	}
	sort.Slice(movies, func(i, j int) bool {
		if !movies[i].AddedAt.Equal(movies[j].AddedAt) {
			return movies[i].AddedAt.After(movies[j].AddedAt)
		}
		return movies[i].ID > movies[j].ID
	})
	return movies
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	Events []websocket.Event
	mu     sync.Mutex
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (p *MockEventPublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

// Types returns the types of all recorded events in order
func (p *MockEventPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Type
	}
	return types
}
