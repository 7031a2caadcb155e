// Package params parses path and query parameters.
package params

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

var (
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidPage  = errors.New("page must be a positive integer")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
	ErrInvalidInt   = errors.New("expected a non-negative integer")
)

// ID parses the positive integer path parameter key.
func ID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// Page is a window into a listing.
type Page struct {
	Limit  int
	Offset int
}

// Pagination reads the page (1 based) and limit query parameters. Limits
// above MaxPageSize are clamped. Pages whose offset does not fit an int32
// are rejected.
func Pagination(r *http.Request) (Page, error) {
	q := r.URL.Query()
	page, limit := 1, DefaultPageSize

	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Page{}, ErrInvalidPage
		}
		page = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Page{}, ErrInvalidLimit
		}
		limit = min(v, MaxPageSize)
	}
	if page-1 > math.MaxInt32/limit {
		return Page{}, ErrInvalidPage
	}
	return Page{Limit: limit, Offset: (page - 1) * limit}, nil
}

// Flag reports whether the query parameter key is "1" or "true".
func Flag(r *http.Request, key string) bool {
	switch r.URL.Query().Get(key) {
	case "1", "true":
		return true
	}
	return false
}

// OptionalInt32 parses the non-negative query parameter key, returning nil
// when it is absent.
func OptionalInt32(r *http.Request, key string) (*int32, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return nil, ErrInvalidInt
	}
	n := int32(v)
	return &n, nil
}

// OptionalInt64 parses the positive query parameter key, returning 0 when
// it is absent.
func OptionalInt64(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidID
	}
	return v, nil
}
