// Package edge toggles the favorite and shopping cart relations between a
// user and a recipe.
package edge

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/matt-dz/foodgram/internal/database"
)

type Kind int

const (
	Favorite Kind = iota
	ShoppingCart
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrAlreadyExists  = errors.New("edge already exists")
	ErrNotFound       = errors.New("edge not found")
	ErrUnknownKind    = errors.New("unknown edge kind")
)

func (k Kind) String() string {
	switch k {
	case Favorite:
		return "favorite"
	case ShoppingCart:
		return "shopping_cart"
	default:
		return "unknown"
	}
}

func recipe(ctx context.Context, db database.Querier, id int64) (database.ShortRecipe, error) {
	r, err := db.GetShortRecipe(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return r, ErrRecipeNotFound
	}
	if err != nil {
		return r, fmt.Errorf("getting recipe: %w", err)
	}
	return r, nil
}

// Add creates the (user, recipe) edge and returns the recipe in short form.
// The unique constraint decides between concurrent identical requests.
func Add(ctx context.Context, db database.Querier, kind Kind, userID, recipeID int64) (database.ShortRecipe, error) {
	r, err := recipe(ctx, db, recipeID)
	if err != nil {
		return r, err
	}

	params := database.EdgeParams{UserID: userID, RecipeID: recipeID}
	switch kind {
	case Favorite:
		err = db.CreateFavorite(ctx, params)
	case ShoppingCart:
		err = db.CreateShoppingCartItem(ctx, params)
	default:
		return r, ErrUnknownKind
	}
	if database.IsUniqueViolation(err) {
		return r, ErrAlreadyExists
	}
	if database.IsForeignKeyViolation(err) {
		return r, ErrRecipeNotFound
	}
	if err != nil {
		return r, fmt.Errorf("creating %s: %w", kind, err)
	}
	return r, nil
}

// Remove deletes the (user, recipe) edge. A missing edge is ErrNotFound and
// changes nothing.
func Remove(ctx context.Context, db database.Querier, kind Kind, userID, recipeID int64) error {
	if _, err := recipe(ctx, db, recipeID); err != nil {
		return err
	}

	var (
		rows int64
		err  error
	)
	params := database.EdgeParams{UserID: userID, RecipeID: recipeID}
	switch kind {
	case Favorite:
		rows, err = db.DeleteFavorite(ctx, params)
	case ShoppingCart:
		rows, err = db.DeleteShoppingCartItem(ctx, params)
	default:
		return ErrUnknownKind
	}
	if err != nil {
		return fmt.Errorf("deleting %s: %w", kind, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
