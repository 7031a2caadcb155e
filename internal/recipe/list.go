package recipe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/viewer"
)

// Filter narrows a listing. Tags match when a recipe carries any of the
// slugs. IsFavorited and IsInShoppingCart are ignored for anonymous viewers.
type Filter struct {
	Tags             []string
	AuthorID         int64
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            uint64
	Offset           uint64
}

func (f Filter) query(v viewer.Viewer) database.RecipeFilter {
	q := database.RecipeFilter{
		ViewerID: v.DBID(),
		TagSlugs: dedupe(f.Tags),
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
	if f.AuthorID != 0 {
		q.AuthorID = pgtype.Int8{Int64: f.AuthorID, Valid: true}
	}
	if !v.IsAnonymous() {
		q.IsFavorited = f.IsFavorited
		q.IsInShoppingCart = f.IsInShoppingCart
	}
	return q
}

// List returns the recipes matching f, newest first, annotated for v.
// The number of queries does not depend on the number of recipes.
func (s *Service) List(ctx context.Context, v viewer.Viewer, f Filter) ([]Recipe, error) {
	return s.list(ctx, f.query(v))
}

// Get returns one recipe annotated for v.
func (s *Service) Get(ctx context.Context, v viewer.Viewer, id int64) (Recipe, error) {
	recipes, err := s.list(ctx, database.RecipeFilter{
		ViewerID: v.DBID(),
		RecipeID: pgtype.Int8{Int64: id, Valid: true},
	})
	if err != nil {
		return Recipe{}, err
	}
	if len(recipes) == 0 {
		return Recipe{}, ErrNotFound
	}
	return recipes[0], nil
}

func (s *Service) list(ctx context.Context, filter database.RecipeFilter) ([]Recipe, error) {
	rows, err := s.db.ListRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	if len(rows) == 0 {
		return []Recipe{}, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	tagRows, err := s.db.GetRecipeTags(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("getting recipe tags: %w", err)
	}
	tags := make(map[int64][]Tag, len(rows))
	for _, t := range tagRows {
		tags[t.RecipeID] = append(tags[t.RecipeID], Tag{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}

	ingredientRows, err := s.db.GetRecipeIngredients(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("getting recipe ingredients: %w", err)
	}
	ingredients := make(map[int64][]Ingredient, len(rows))
	for _, i := range ingredientRows {
		ingredients[i.RecipeID] = append(ingredients[i.RecipeID], Ingredient{
			ID:              i.ID,
			Name:            i.Name,
			MeasurementUnit: i.MeasurementUnit,
			Amount:          i.Amount,
		})
	}

	recipes := make([]Recipe, len(rows))
	for i, row := range rows {
		recipes[i] = Recipe{
			ID: row.ID,
			Author: Author{
				ID:           row.AuthorID,
				Email:        row.AuthorEmail,
				Username:     row.AuthorUsername,
				FirstName:    row.AuthorFirstName,
				LastName:     row.AuthorLastName,
				IsSubscribed: row.AuthorIsSubscribed,
			},
			Name:             row.Name,
			Image:            row.Image,
			Description:      row.Description,
			CookingTime:      row.CookingTime,
			CreatedAt:        row.CreatedAt.Time,
			Tags:             nonNil(tags[row.ID]),
			Ingredients:      nonNil(ingredients[row.ID]),
			IsFavorited:      row.IsFavorited,
			IsInShoppingCart: row.IsInShoppingCart,
		}
	}
	return recipes, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func dedupe[T comparable](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
