package database

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const (
	authorSubscribedExpr = "EXISTS (SELECT 1 FROM follows fo WHERE fo.following_id = r.author_id AND fo.user_id = ?)"
	favoritedExpr        = "EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_id = ?)"
	inShoppingCartExpr   = "EXISTS (SELECT 1 FROM shopping_carts sc WHERE sc.recipe_id = r.id AND sc.user_id = ?)"
	taggedExpr           = "EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id WHERE rt.recipe_id = r.id AND t.slug = ANY(?))"
)

// RecipeFilter narrows and annotates a recipe listing. ViewerID is
// invalid for anonymous viewers; the favorite and shopping cart
// predicates are ignored for them.
type RecipeFilter struct {
	ViewerID         pgtype.Int8
	RecipeID         pgtype.Int8
	AuthorID         pgtype.Int8
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            uint64
	Offset           uint64
}

type ListRecipesRow struct {
	ID                 int64
	AuthorID           int64
	Name               string
	Image              string
	Description        string
	CookingTime        int32
	CreatedAt          pgtype.Timestamptz
	AuthorEmail        string
	AuthorUsername     string
	AuthorFirstName    string
	AuthorLastName     string
	AuthorIsSubscribed bool
	IsFavorited        bool
	IsInShoppingCart   bool
}

// viewerFlag selects a per-viewer boolean. Anonymous viewers get a
// constant so no edge table is touched.
func viewerFlag(expr, alias string, viewer pgtype.Int8) squirrel.Sqlizer {
	if !viewer.Valid {
		return squirrel.Expr("FALSE AS " + alias)
	}
	return squirrel.Expr(expr+" AS "+alias, viewer.Int64)
}

// ListRecipesQuery builds the listing query for f.
func ListRecipesQuery(f RecipeFilter) squirrel.SelectBuilder {
	q := psql.
		Select(
			"r.id", "r.author_id", "r.name", "r.image", "r.description", "r.cooking_time", "r.created_at",
			"u.email", "u.username", "u.first_name", "u.last_name",
		).
		Column(viewerFlag(authorSubscribedExpr, "author_is_subscribed", f.ViewerID)).
		Column(viewerFlag(favoritedExpr, "is_favorited", f.ViewerID)).
		Column(viewerFlag(inShoppingCartExpr, "is_in_shopping_cart", f.ViewerID)).
		From("recipes r").
		Join("users u ON u.id = r.author_id").
		OrderBy("r.created_at DESC", "r.id DESC")

	if f.RecipeID.Valid {
		q = q.Where(squirrel.Eq{"r.id": f.RecipeID.Int64})
	}
	if f.AuthorID.Valid {
		q = q.Where(squirrel.Eq{"r.author_id": f.AuthorID.Int64})
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where(squirrel.Expr(taggedExpr, f.TagSlugs))
	}
	if f.ViewerID.Valid {
		if f.IsFavorited {
			q = q.Where(squirrel.Expr(favoritedExpr, f.ViewerID.Int64))
		}
		if f.IsInShoppingCart {
			q = q.Where(squirrel.Expr(inShoppingCartExpr, f.ViewerID.Int64))
		}
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	return q
}

func (q *Queries) ListRecipes(ctx context.Context, f RecipeFilter) ([]ListRecipesRow, error) {
	query, args, err := ListRecipesQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building recipe query: %w", err)
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRecipesRow
	for rows.Next() {
		var i ListRecipesRow
		if err := rows.Scan(
			&i.ID,
			&i.AuthorID,
			&i.Name,
			&i.Image,
			&i.Description,
			&i.CookingTime,
			&i.CreatedAt,
			&i.AuthorEmail,
			&i.AuthorUsername,
			&i.AuthorFirstName,
			&i.AuthorLastName,
			&i.AuthorIsSubscribed,
			&i.IsFavorited,
			&i.IsInShoppingCart,
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
