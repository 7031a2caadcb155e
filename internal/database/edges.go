package database

import (
	"context"
)

// EdgeParams identifies a (user, recipe) pair in favorites or shopping_carts.
type EdgeParams struct {
	UserID   int64
	RecipeID int64
}

const createFavorite = `INSERT INTO favorites (user_id, recipe_id) VALUES ($1, $2)`

func (q *Queries) CreateFavorite(ctx context.Context, arg EdgeParams) error {
	_, err := q.db.Exec(ctx, createFavorite, arg.UserID, arg.RecipeID)
	return err
}

const deleteFavorite = `DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`

func (q *Queries) DeleteFavorite(ctx context.Context, arg EdgeParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteFavorite, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const createShoppingCartItem = `INSERT INTO shopping_carts (user_id, recipe_id) VALUES ($1, $2)`

func (q *Queries) CreateShoppingCartItem(ctx context.Context, arg EdgeParams) error {
	_, err := q.db.Exec(ctx, createShoppingCartItem, arg.UserID, arg.RecipeID)
	return err
}

const deleteShoppingCartItem = `DELETE FROM shopping_carts WHERE user_id = $1 AND recipe_id = $2`

func (q *Queries) DeleteShoppingCartItem(ctx context.Context, arg EdgeParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteShoppingCartItem, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
