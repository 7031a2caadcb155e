package database

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const listIngredients = `SELECT id, name, measurement_unit
FROM ingredients
WHERE $1 = '' OR lower(name) LIKE lower($1) || '%'
ORDER BY name, id`

// ListIngredients returns the ingredients whose name starts with
// namePrefix, ignoring case. An empty prefix lists every ingredient.
func (q *Queries) ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, listIngredients, likeEscaper.Replace(namePrefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getIngredient = `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`

func (q *Queries) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	row := q.db.QueryRow(ctx, getIngredient, id)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

const countIngredients = `SELECT count(*) FROM ingredients WHERE id = ANY($1::bigint[])`

func (q *Queries) CountIngredients(ctx context.Context, ids []int64) (int64, error) {
	row := q.db.QueryRow(ctx, countIngredients, ids)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getIngredientCount = `SELECT count(*) FROM ingredients`

func (q *Queries) GetIngredientCount(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, getIngredientCount)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteAllIngredients = `DELETE FROM ingredients`

func (q *Queries) DeleteAllIngredients(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteAllIngredients)
	return err
}

type CopyIngredientsParams struct {
	Name            string
	MeasurementUnit string
}

func (q *Queries) CopyIngredients(ctx context.Context, arg []CopyIngredientsParams) (int64, error) {
	return q.db.CopyFrom(ctx,
		pgx.Identifier{"ingredients"},
		[]string{"name", "measurement_unit"},
		pgx.CopyFromSlice(len(arg), func(i int) ([]any, error) {
			return []any{arg[i].Name, arg[i].MeasurementUnit}, nil
		}),
	)
}

const getRecipeIngredients = `SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE ri.recipe_id = ANY($1::bigint[])
ORDER BY ri.recipe_id, ri.id`

type GetRecipeIngredientsRow struct {
	RecipeID        int64
	ID              int64
	Name            string
	MeasurementUnit string
	Amount          int32
}

func (q *Queries) GetRecipeIngredients(ctx context.Context, recipeIDs []int64) ([]GetRecipeIngredientsRow, error) {
	rows, err := q.db.Query(ctx, getRecipeIngredients, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetRecipeIngredientsRow
	for rows.Next() {
		var i GetRecipeIngredientsRow
		if err := rows.Scan(&i.RecipeID, &i.ID, &i.Name, &i.MeasurementUnit, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteRecipeIngredients = `DELETE FROM recipe_ingredients WHERE recipe_id = $1`

func (q *Queries) DeleteRecipeIngredients(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, deleteRecipeIngredients, recipeID)
	return err
}

const addRecipeIngredients = `INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
SELECT $1, i.ingredient_id, i.amount
FROM unnest($2::bigint[], $3::int[]) WITH ORDINALITY AS i(ingredient_id, amount, ord)
ORDER BY i.ord`

type AddRecipeIngredientsParams struct {
	RecipeID      int64
	IngredientIDs []int64
	Amounts       []int32
}

func (q *Queries) AddRecipeIngredients(ctx context.Context, arg AddRecipeIngredientsParams) error {
	_, err := q.db.Exec(ctx, addRecipeIngredients, arg.RecipeID, arg.IngredientIDs, arg.Amounts)
	return err
}

const getShoppingCartIngredients = `SELECT i.name, i.measurement_unit, ri.amount
FROM shopping_carts sc
JOIN recipe_ingredients ri ON ri.recipe_id = sc.recipe_id
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE sc.user_id = $1`

type GetShoppingCartIngredientsRow struct {
	Name            string
	MeasurementUnit string
	Amount          int32
}

func (q *Queries) GetShoppingCartIngredients(ctx context.Context, userID int64) ([]GetShoppingCartIngredientsRow, error) {
	rows, err := q.db.Query(ctx, getShoppingCartIngredients, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetShoppingCartIngredientsRow
	for rows.Next() {
		var i GetShoppingCartIngredientsRow
		if err := rows.Scan(&i.Name, &i.MeasurementUnit, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
