package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInternalError = errors.New("internal error")
)

// Movie errors. Validation errors wrap ErrInvalidInput, lookups wrap ErrNotFound.
var (
	ErrMovieTitleEmpty   = fmt.Errorf("%w: movie title is required", ErrInvalidInput)
	ErrInvalidMovieID    = fmt.Errorf("%w: movie id must be an integer", ErrInvalidInput)
	ErrMovieNotFound     = fmt.Errorf("%w: movie not found", ErrNotFound)
)
