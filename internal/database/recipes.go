package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createRecipe = `INSERT INTO recipes (author_id, name, image, description, cooking_time)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

type CreateRecipeParams struct {
	AuthorID    int64
	Name        string
	Image       string
	Description string
	CookingTime int32
}

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	row := q.db.QueryRow(ctx, createRecipe,
		arg.AuthorID,
		arg.Name,
		arg.Image,
		arg.Description,
		arg.CookingTime,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

// NULL parameters leave the column unchanged.
const updateRecipe = `UPDATE recipes
SET name = COALESCE($2, name),
  image = COALESCE($3, image),
  description = COALESCE($4, description),
  cooking_time = COALESCE($5, cooking_time)
WHERE id = $1`

type UpdateRecipeParams struct {
	ID          int64
	Name        pgtype.Text
	Image       pgtype.Text
	Description pgtype.Text
	CookingTime pgtype.Int4
}

func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	_, err := q.db.Exec(ctx, updateRecipe,
		arg.ID,
		arg.Name,
		arg.Image,
		arg.Description,
		arg.CookingTime,
	)
	return err
}

const getRecipeOwner = `SELECT id, author_id, image FROM recipes WHERE id = $1`

type GetRecipeOwnerRow struct {
	ID       int64
	AuthorID int64
	Image    string
}

func (q *Queries) GetRecipeOwner(ctx context.Context, id int64) (GetRecipeOwnerRow, error) {
	row := q.db.QueryRow(ctx, getRecipeOwner, id)
	var i GetRecipeOwnerRow
	err := row.Scan(&i.ID, &i.AuthorID, &i.Image)
	return i, err
}

const deleteRecipe = `DELETE FROM recipes WHERE id = $1`

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteRecipe, id)
	return err
}

const getShortRecipe = `SELECT id, name, image, cooking_time FROM recipes WHERE id = $1`

func (q *Queries) GetShortRecipe(ctx context.Context, id int64) (ShortRecipe, error) {
	row := q.db.QueryRow(ctx, getShortRecipe, id)
	var i ShortRecipe
	err := row.Scan(&i.ID, &i.Name, &i.Image, &i.CookingTime)
	return i, err
}
