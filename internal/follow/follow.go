// Package follow maintains the directed follower graph between users.
package follow

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/viewer"
)

var (
	ErrSelfFollow       = errors.New("users cannot follow themselves")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyFollowing = errors.New("already following user")
	ErrNotFollowing     = errors.New("not following user")
)

// Subscription is a followed user with their most recent recipes.
type Subscription struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	IsSubscribed bool
	RecipesCount int64
	Recipes      []database.ShortRecipe
}

func userExists(ctx context.Context, db database.Querier, id int64) (database.User, error) {
	u, err := db.GetUser(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, ErrUserNotFound
	}
	if err != nil {
		return u, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// Follow creates the follower -> target edge.
func Follow(ctx context.Context, db database.Querier, follower, target int64) error {
	if follower == target {
		return ErrSelfFollow
	}
	if _, err := userExists(ctx, db, target); err != nil {
		return err
	}

	err := db.CreateFollow(ctx, database.FollowParams{UserID: follower, FollowingID: target})
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return ErrAlreadyFollowing
	case database.IsCheckViolation(err):
		return ErrSelfFollow
	case database.IsForeignKeyViolation(err):
		return ErrUserNotFound
	default:
		return fmt.Errorf("creating follow: %w", err)
	}
}

// Unfollow removes the follower -> target edge. A missing edge is
// ErrNotFollowing.
func Unfollow(ctx context.Context, db database.Querier, follower, target int64) error {
	if _, err := userExists(ctx, db, target); err != nil {
		return err
	}
	rows, err := db.DeleteFollow(ctx, database.FollowParams{UserID: follower, FollowingID: target})
	if err != nil {
		return fmt.Errorf("deleting follow: %w", err)
	}
	if rows == 0 {
		return ErrNotFollowing
	}
	return nil
}

// IsFollowing reports whether v follows target. Anonymous viewers follow
// no one.
func IsFollowing(ctx context.Context, db database.Querier, v viewer.Viewer, target int64) (bool, error) {
	if v.IsAnonymous() {
		return false, nil
	}
	ok, err := db.IsFollowing(ctx, database.FollowParams{UserID: v.ID, FollowingID: target})
	if err != nil {
		return false, fmt.Errorf("checking follow: %w", err)
	}
	return ok, nil
}

func perAuthor(recipesLimit *int32) pgtype.Int4 {
	if recipesLimit == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *recipesLimit, Valid: true}
}

func recentRecipes(
	ctx context.Context,
	db database.Querier,
	authors []int64,
	recipesLimit *int32,
) (map[int64][]database.ShortRecipe, error) {
	rows, err := db.ListRecentRecipesByAuthors(ctx, database.ListRecentRecipesByAuthorsParams{
		AuthorIDs: authors,
		PerAuthor: perAuthor(recipesLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("listing recent recipes: %w", err)
	}
	out := make(map[int64][]database.ShortRecipe, len(authors))
	for _, r := range rows {
		out[r.AuthorID] = append(out[r.AuthorID], database.ShortRecipe{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.Image,
			CookingTime: r.CookingTime,
		})
	}
	return out, nil
}

func recipesOrEmpty(r []database.ShortRecipe) []database.ShortRecipe {
	if r == nil {
		return []database.ShortRecipe{}
	}
	return r
}

// ListSubscriptions returns the users follower follows, most recently
// followed first. Each carries up to recipesLimit recent recipes, or all of
// them when recipesLimit is nil.
func ListSubscriptions(
	ctx context.Context,
	db database.Querier,
	follower int64,
	limit, offset int32,
	recipesLimit *int32,
) ([]Subscription, error) {
	rows, err := db.ListSubscriptions(ctx, database.ListSubscriptionsParams{
		UserID: follower,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	if len(rows) == 0 {
		return []Subscription{}, nil
	}

	authors := make([]int64, len(rows))
	for i, r := range rows {
		authors[i] = r.ID
	}
	recipes, err := recentRecipes(ctx, db, authors, recipesLimit)
	if err != nil {
		return nil, err
	}

	subs := make([]Subscription, len(rows))
	for i, r := range rows {
		subs[i] = Subscription{
			ID:           r.ID,
			Email:        r.Email,
			Username:     r.Username,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			IsSubscribed: true,
			RecipesCount: r.RecipesCount,
			Recipes:      recipesOrEmpty(recipes[r.ID]),
		}
	}
	return subs, nil
}

// GetSubscription returns target in the shape of a subscription entry.
func GetSubscription(
	ctx context.Context,
	db database.Querier,
	target int64,
	recipesLimit *int32,
) (Subscription, error) {
	u, err := userExists(ctx, db, target)
	if err != nil {
		return Subscription{}, err
	}
	count, err := db.CountRecipesByAuthor(ctx, target)
	if err != nil {
		return Subscription{}, fmt.Errorf("counting recipes: %w", err)
	}
	recipes, err := recentRecipes(ctx, db, []int64{target}, recipesLimit)
	if err != nil {
		return Subscription{}, err
	}
	return Subscription{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: true,
		RecipesCount: count,
		Recipes:      recipesOrEmpty(recipes[target]),
	}, nil
}
