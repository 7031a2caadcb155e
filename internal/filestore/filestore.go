// Package filestore stores recipe images and turns their keys into URLs.
package filestore

import (
	"context"
	"path"
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	recipeImagesDir = "recipes/images"
)

const (
	DefaultURLPrefix = "/media"
)

// Store keeps image blobs. Keys are slash separated and relative; they
// are what the database records as the image reference.
type Store interface {
	WriteRecipeImage(ctx context.Context, suffix string, data []byte) (key string, err error)
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// NewRecipeImageKey returns a unique key for a recipe image.
func NewRecipeImageKey(suffix string) string {
	return path.Join(recipeImagesDir, ulid.Make().String()+suffix)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
