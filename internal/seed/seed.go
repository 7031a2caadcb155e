// Package seed loads reference data (ingredients and tags) from JSON files
// at provisioning time.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/validation"
)

var (
	ErrCatalogPopulated = errors.New("ingredient catalog is already populated")
	ErrNoSlug           = errors.New("cannot derive a slug")
)

var validate = validation.NewValidator()

type IngredientRecord struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

type TagRecord struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"omitempty,max=200"`
}

type ingredientFile struct {
	Records []IngredientRecord `validate:"dive"`
}

type tagFile struct {
	Records []TagRecord `validate:"dive"`
}

// ImportIngredients replaces the ingredient catalog with the records in r.
// Duplicate (name, unit) pairs are loaded once. A non-empty catalog is left
// alone unless force is set; forcing also drops the ingredients from every
// recipe that used them.
func ImportIngredients(ctx context.Context, db database.Store, r io.Reader, force bool) (int64, error) {
	var records []IngredientRecord
	if err := json.Decode(r, &records); err != nil {
		return 0, err
	}
	if err := validate.Struct(ingredientFile{Records: records}); err != nil {
		return 0, fmt.Errorf("invalid ingredient file: %w", err)
	}

	type key struct{ name, unit string }
	seen := make(map[key]struct{}, len(records))
	params := make([]database.CopyIngredientsParams, 0, len(records))
	for _, rec := range records {
		k := key{strings.TrimSpace(rec.Name), strings.TrimSpace(rec.MeasurementUnit)}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		params = append(params, database.CopyIngredientsParams{Name: k.name, MeasurementUnit: k.unit})
	}

	count, err := db.GetIngredientCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting ingredients: %w", err)
	}
	if count > 0 && !force {
		return 0, ErrCatalogPopulated
	}

	var copied int64
	err = db.InTx(ctx, func(q database.Querier) error {
		if count > 0 {
			if err := q.DeleteAllIngredients(ctx); err != nil {
				return fmt.Errorf("deleting ingredients: %w", err)
			}
		}
		var err error
		if copied, err = q.CopyIngredients(ctx, params); err != nil {
			return fmt.Errorf("copying ingredients: %w", err)
		}
		return nil
	})
	return copied, err
}

// ImportTags creates the tags in r that do not exist yet and returns how
// many were created. A missing slug is derived from the name.
func ImportTags(ctx context.Context, db database.Querier, r io.Reader) (int64, error) {
	var records []TagRecord
	if err := json.Decode(r, &records); err != nil {
		return 0, err
	}
	if err := validate.Struct(tagFile{Records: records}); err != nil {
		return 0, fmt.Errorf("invalid tag file: %w", err)
	}

	var created int64
	for _, rec := range records {
		params, err := TagParams(rec)
		if err != nil {
			return created, err
		}
		n, err := db.CreateTagIfNotExists(ctx, params)
		if err != nil {
			return created, fmt.Errorf("creating tag %q: %w", rec.Name, err)
		}
		created += n
	}
	return created, nil
}

// TagParams normalizes rec for insertion. A missing slug is derived from
// the name.
func TagParams(rec TagRecord) (database.CreateTagParams, error) {
	slug := rec.Slug
	if slug == "" {
		slug = Slugify(rec.Name)
	}
	if slug == "" {
		return database.CreateTagParams{}, fmt.Errorf("tag %q: %w", rec.Name, ErrNoSlug)
	}
	return database.CreateTagParams{
		Name:  strings.TrimSpace(rec.Name),
		Color: strings.ToLower(rec.Color),
		Slug:  slug,
	}, nil
}

// Slugify lowercases s and joins its runs of letters and digits with
// hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
