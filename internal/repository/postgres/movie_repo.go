package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MovieRepository implements domain.MovieRepository using PostgreSQL.
// Each mutation is a single statement so concurrent calls on one row are serialized by its row lock.
type MovieRepository struct {
	pool *pgxpool.Pool
}

// NewMovieRepository creates a new MovieRepository
func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

// Create inserts a want-to-watch movie and returns its id
func (r *MovieRepository) Create(ctx context.Context, ownerID int64, title string, isPublic bool) (int64, error) {
	title, err := domain.NormalizeTitle(title)
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.pool.QueryRow(ctx, `
		INSERT INTO movies (user_id, title, is_public)
		VALUES ($1, $2, $3)
		RETURNING id`,
		ownerID, title, isPublic,
	).Scan(&id)
	if err != nil {
		if isPgCheckViolation(err) {
			return 0, domain.ErrMovieTitleEmpty
		}
		return 0, fmt.Errorf("failed to create movie: %w", err)
	}
	return id, nil
}

// ListByStatus returns one owner's movies in a status, newest first
func (r *MovieRepository) ListByStatus(ctx context.Context, ownerID int64, status domain.MovieStatus, visibility domain.Visibility) ([]*domain.MovieListItem, error) {
	query := `SELECT id, title, added_date FROM movies
		WHERE user_id = $1 AND status = $2`
	if visibility == domain.VisibilityPublicOnly {
		query += ` AND is_public`
	}
	query += ` ORDER BY added_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, ownerID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*domain.MovieListItem, 0)
	for rows.Next() {
		var m domain.MovieListItem
		if err := rows.Scan(&m.ID, &m.Title, &m.AddedAt); err != nil {
			return nil, err
		}
		movies = append(movies, &m)
	}
	return movies, rows.Err()
}

// ListAll returns one owner's movies in both statuses, newest first
func (r *MovieRepository) ListAll(ctx context.Context, ownerID int64, visibility domain.Visibility) ([]*domain.MovieSummary, error) {
	query := `SELECT id, title, status, added_date, is_public FROM movies
		WHERE user_id = $1`
	if visibility == domain.VisibilityPublicOnly {
		query += ` AND is_public`
	}
	query += ` ORDER BY added_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*domain.MovieSummary, 0)
	for rows.Next() {
		var m domain.MovieSummary
		var status string
		if err := rows.Scan(&m.ID, &m.Title, &status, &m.AddedAt, &m.IsPublic); err != nil {
			return nil, err
		}
		m.Status = domain.MovieStatus(status)
		movies = append(movies, &m)
	}
	return movies, rows.Err()
}

// ListPublicFeed returns every public movie across owners, newest first
func (r *MovieRepository) ListPublicFeed(ctx context.Context) ([]*domain.PublicFeedEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.title, m.status, m.added_date, m.watched_date, m.user_id,
		       COALESCE(u.username, ''), COALESCE(u.first_name, '')
		FROM movies m
		LEFT JOIN users u ON m.user_id = u.user_id
		WHERE m.is_public
		ORDER BY m.added_date DESC, m.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list public feed: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.PublicFeedEntry, 0)
	for rows.Next() {
		var e domain.PublicFeedEntry
		var status string
		if err := rows.Scan(&e.ID, &e.Title, &status, &e.AddedAt, &e.WatchedAt, &e.OwnerID, &e.Username, &e.FirstName); err != nil {
			return nil, err
		}
		e.Status = domain.MovieStatus(status)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// MarkWatched moves a want-to-watch movie to watched and stamps watched_date.
// A missing, foreign or already watched movie yields ErrMovieNotFound.
func (r *MovieRepository) MarkWatched(ctx context.Context, ownerID int64, movieID int64) (*domain.MovieRef, error) {
	m, err := scanMovieRef(r.pool.QueryRow(ctx, `
		UPDATE movies
		SET status = 'watched', watched_date = now()
		WHERE id = $1 AND user_id = $2 AND status = 'want_to_watch'
		RETURNING id, title, status, is_public`,
		movieID, ownerID,
	))
	if err != nil && !errors.Is(err, domain.ErrMovieNotFound) {
		return nil, fmt.Errorf("failed to mark movie watched: %w", err)
	}
	return m, err
}

// Delete hard-deletes a movie owned by ownerID and returns the removed row
func (r *MovieRepository) Delete(ctx context.Context, ownerID int64, movieID int64) (*domain.MovieRef, error) {
	m, err := scanMovieRef(r.pool.QueryRow(ctx, `
		DELETE FROM movies
		WHERE id = $1 AND user_id = $2
		RETURNING id, title, status, is_public`,
		movieID, ownerID,
	))
	if err != nil && !errors.Is(err, domain.ErrMovieNotFound) {
		return nil, fmt.Errorf("failed to delete movie: %w", err)
	}
	return m, err
}

// GetByID retrieves a movie owned by ownerID
func (r *MovieRepository) GetByID(ctx context.Context, ownerID int64, movieID int64) (*domain.MovieRef, error) {
	return scanMovieRef(r.pool.QueryRow(ctx, `
		SELECT id, title, status, is_public FROM movies
		WHERE id = $1 AND user_id = $2`,
		movieID, ownerID,
	))
}

// TogglePrivacy flips is_public in one statement and returns the movie as updated
func (r *MovieRepository) TogglePrivacy(ctx context.Context, ownerID int64, movieID int64) (*domain.MovieRef, error) {
	m, err := scanMovieRef(r.pool.QueryRow(ctx, `
		UPDATE movies SET is_public = NOT is_public
		WHERE id = $1 AND user_id = $2
		RETURNING id, title, status, is_public`,
		movieID, ownerID,
	))
	if err != nil && !errors.Is(err, domain.ErrMovieNotFound) {
		return nil, fmt.Errorf("failed to toggle privacy: %w", err)
	}
	return m, err
}

// scanMovieRef scans (id, title, status, is_public), mapping no row to ErrMovieNotFound
func scanMovieRef(row pgx.Row) (*domain.MovieRef, error) {
	var m domain.MovieRef
	var status string
	if err := row.Scan(&m.ID, &m.Title, &status, &m.IsPublic); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, err
	}
	m.Status = domain.MovieStatus(status)
	return &m, nil
}

// CountByStatus returns the owner's true totals per status
func (r *MovieRepository) CountByStatus(ctx context.Context, ownerID int64) (*domain.MovieCounts, error) {
	var counts domain.MovieCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'want_to_watch'),
			COUNT(*) FILTER (WHERE status = 'watched')
		FROM movies WHERE user_id = $1`,
		ownerID,
	).Scan(&counts.WantToWatch, &counts.Watched)
	if err != nil {
		return nil, fmt.Errorf("failed to count movies: %w", err)
	}
	return &counts, nil
}
