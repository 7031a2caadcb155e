package database

import (
	"context"
)

const listTags = `SELECT id, name, color, slug FROM tags ORDER BY name`

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.Query(ctx, listTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tag
	for rows.Next() {
		var i Tag
		if err := rows.Scan(&i.ID, &i.Name, &i.Color, &i.Slug); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTag = `SELECT id, name, color, slug FROM tags WHERE id = $1`

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	row := q.db.QueryRow(ctx, getTag, id)
	var i Tag
	err := row.Scan(&i.ID, &i.Name, &i.Color, &i.Slug)
	return i, err
}

const countTags = `SELECT count(*) FROM tags WHERE id = ANY($1::bigint[])`

func (q *Queries) CountTags(ctx context.Context, ids []int64) (int64, error) {
	row := q.db.QueryRow(ctx, countTags, ids)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createTagIfNotExists = `INSERT INTO tags (name, color, slug)
VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING`

type CreateTagParams struct {
	Name  string
	Color string
	Slug  string
}

const createTag = `INSERT INTO tags (name, color, slug)
VALUES ($1, $2, $3)
RETURNING id, name, color, slug`

func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	row := q.db.QueryRow(ctx, createTag, arg.Name, arg.Color, arg.Slug)
	var i Tag
	err := row.Scan(&i.ID, &i.Name, &i.Color, &i.Slug)
	return i, err
}

// CreateTagIfNotExists returns the number of inserted rows, zero when a
// tag with the same name or slug already exists.
func (q *Queries) CreateTagIfNotExists(ctx context.Context, arg CreateTagParams) (int64, error) {
	result, err := q.db.Exec(ctx, createTagIfNotExists, arg.Name, arg.Color, arg.Slug)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getRecipeTags = `SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
FROM recipe_tags rt
JOIN tags t ON t.id = rt.tag_id
WHERE rt.recipe_id = ANY($1::bigint[])
ORDER BY rt.recipe_id, t.id`

type GetRecipeTagsRow struct {
	RecipeID int64
	ID       int64
	Name     string
	Color    string
	Slug     string
}

func (q *Queries) GetRecipeTags(ctx context.Context, recipeIDs []int64) ([]GetRecipeTagsRow, error) {
	rows, err := q.db.Query(ctx, getRecipeTags, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetRecipeTagsRow
	for rows.Next() {
		var i GetRecipeTagsRow
		if err := rows.Scan(&i.RecipeID, &i.ID, &i.Name, &i.Color, &i.Slug); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteRecipeTags = `DELETE FROM recipe_tags WHERE recipe_id = $1`

func (q *Queries) DeleteRecipeTags(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, deleteRecipeTags, recipeID)
	return err
}

const addRecipeTags = `INSERT INTO recipe_tags (recipe_id, tag_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING`

type AddRecipeTagsParams struct {
	RecipeID int64
	TagIDs   []int64
}

func (q *Queries) AddRecipeTags(ctx context.Context, arg AddRecipeTagsParams) error {
	_, err := q.db.Exec(ctx, addRecipeTags, arg.RecipeID, arg.TagIDs)
	return err
}
