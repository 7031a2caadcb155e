// Package recipe reads and writes recipes with their tags and ingredients.
package recipe

import (
	"errors"
	"log/slog"
	"time"

	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/log"
)

var (
	ErrNotFound  = errors.New("recipe not found")
	ErrForbidden = errors.New("recipe is owned by another user")
)

type Author struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	IsSubscribed bool
}

type Tag struct {
	ID    int64
	Name  string
	Color string
	Slug  string
}

type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
	Amount          int32
}

// Recipe is a recipe as seen by one viewer. Image is the file store key.
type Recipe struct {
	ID               int64
	Author           Author
	Name             string
	Image            string
	Description      string
	CookingTime      int32
	CreatedAt        time.Time
	Tags             []Tag
	Ingredients      []Ingredient
	IsFavorited      bool
	IsInShoppingCart bool
}

// Service runs recipe operations against the store. Images go to Files.
type Service struct {
	db     database.Store
	files  filestore.Store
	logger *slog.Logger
}

func New(db database.Store, files filestore.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = log.NullLogger()
	}
	return &Service{
		db:     db,
		files:  files,
		logger: logger,
	}
}
