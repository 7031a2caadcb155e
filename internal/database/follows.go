package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type FollowParams struct {
	UserID      int64
	FollowingID int64
}

const createFollow = `INSERT INTO follows (user_id, following_id) VALUES ($1, $2)`

func (q *Queries) CreateFollow(ctx context.Context, arg FollowParams) error {
	_, err := q.db.Exec(ctx, createFollow, arg.UserID, arg.FollowingID)
	return err
}

const deleteFollow = `DELETE FROM follows WHERE user_id = $1 AND following_id = $2`

func (q *Queries) DeleteFollow(ctx context.Context, arg FollowParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteFollow, arg.UserID, arg.FollowingID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const isFollowing = `SELECT EXISTS (
  SELECT 1 FROM follows WHERE user_id = $1 AND following_id = $2
)`

func (q *Queries) IsFollowing(ctx context.Context, arg FollowParams) (bool, error) {
	row := q.db.QueryRow(ctx, isFollowing, arg.UserID, arg.FollowingID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listSubscriptions = `SELECT u.id, u.email, u.username, u.first_name, u.last_name,
  (SELECT count(*) FROM recipes r WHERE r.author_id = u.id) AS recipes_count
FROM follows f
JOIN users u ON u.id = f.following_id
WHERE f.user_id = $1
ORDER BY f.id DESC
LIMIT $2 OFFSET $3`

type ListSubscriptionsParams struct {
	UserID int64
	Limit  int32
	Offset int32
}

type ListSubscriptionsRow struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	RecipesCount int64
}

func (q *Queries) ListSubscriptions(ctx context.Context, arg ListSubscriptionsParams) ([]ListSubscriptionsRow, error) {
	rows, err := q.db.Query(ctx, listSubscriptions, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSubscriptionsRow
	for rows.Next() {
		var i ListSubscriptionsRow
		if err := rows.Scan(
			&i.ID,
			&i.Email,
			&i.Username,
			&i.FirstName,
			&i.LastName,
			&i.RecipesCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRecipesByAuthor = `SELECT count(*) FROM recipes WHERE author_id = $1`

func (q *Queries) CountRecipesByAuthor(ctx context.Context, authorID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countRecipesByAuthor, authorID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

// A NULL per-author limit returns every recipe of each author.
const listRecentRecipesByAuthors = `SELECT author_id, id, name, image, cooking_time
FROM (
  SELECT r.author_id, r.id, r.name, r.image, r.cooking_time,
    row_number() OVER (PARTITION BY r.author_id ORDER BY r.created_at DESC, r.id DESC) AS rn
  FROM recipes r
  WHERE r.author_id = ANY($1::bigint[])
) ranked
WHERE $2::int IS NULL OR rn <= $2::int
ORDER BY author_id, rn`

type ListRecentRecipesByAuthorsParams struct {
	AuthorIDs []int64
	PerAuthor pgtype.Int4
}

type ListRecentRecipesByAuthorsRow struct {
	AuthorID    int64
	ID          int64
	Name        string
	Image       string
	CookingTime int32
}

func (q *Queries) ListRecentRecipesByAuthors(ctx context.Context, arg ListRecentRecipesByAuthorsParams) ([]ListRecentRecipesByAuthorsRow, error) {
	rows, err := q.db.Query(ctx, listRecentRecipesByAuthors, arg.AuthorIDs, arg.PerAuthor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRecentRecipesByAuthorsRow
	for rows.Next() {
		var i ListRecentRecipesByAuthorsRow
		if err := rows.Scan(
			&i.AuthorID,
			&i.ID,
			&i.Name,
			&i.Image,
			&i.CookingTime,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listFollowedAmong = `SELECT following_id FROM follows
WHERE user_id = $1 AND following_id = ANY($2::bigint[])`

type ListFollowedAmongParams struct {
	UserID       int64
	FollowingIDs []int64
}

// ListFollowedAmong returns the subset of FollowingIDs that UserID follows.
func (q *Queries) ListFollowedAmong(ctx context.Context, arg ListFollowedAmongParams) ([]int64, error) {
	rows, err := q.db.Query(ctx, listFollowedAmong, arg.UserID, arg.FollowingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
