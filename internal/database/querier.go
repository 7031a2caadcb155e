package database

import (
	"context"
)

type Querier interface {
	AddRecipeIngredients(ctx context.Context, arg AddRecipeIngredientsParams) error
	AddRecipeTags(ctx context.Context, arg AddRecipeTagsParams) error
	CopyIngredients(ctx context.Context, arg []CopyIngredientsParams) (int64, error)
	CountIngredients(ctx context.Context, ids []int64) (int64, error)
	CountRecipesByAuthor(ctx context.Context, authorID int64) (int64, error)
	CountTags(ctx context.Context, ids []int64) (int64, error)
	CreateAdmin(ctx context.Context, arg CreateUserParams) (int64, error)
	CreateFavorite(ctx context.Context, arg EdgeParams) error
	CreateFollow(ctx context.Context, arg FollowParams) error
	CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error)
	CreateShoppingCartItem(ctx context.Context, arg EdgeParams) error
	CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error)
	CreateTagIfNotExists(ctx context.Context, arg CreateTagParams) (int64, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (int64, error)
	DeleteAllIngredients(ctx context.Context) error
	DeleteFavorite(ctx context.Context, arg EdgeParams) (int64, error)
	DeleteFollow(ctx context.Context, arg FollowParams) (int64, error)
	DeleteRecipe(ctx context.Context, id int64) error
	DeleteRecipeIngredients(ctx context.Context, recipeID int64) error
	DeleteRecipeTags(ctx context.Context, recipeID int64) error
	DeleteShoppingCartItem(ctx context.Context, arg EdgeParams) (int64, error)
	GetAdminCount(ctx context.Context) (int64, error)
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)
	GetIngredientCount(ctx context.Context) (int64, error)
	GetRecipeIngredients(ctx context.Context, recipeIDs []int64) ([]GetRecipeIngredientsRow, error)
	GetRecipeOwner(ctx context.Context, id int64) (GetRecipeOwnerRow, error)
	GetRecipeTags(ctx context.Context, recipeIDs []int64) ([]GetRecipeTagsRow, error)
	GetShoppingCartIngredients(ctx context.Context, userID int64) ([]GetShoppingCartIngredientsRow, error)
	GetShortRecipe(ctx context.Context, id int64) (ShortRecipe, error)
	GetTag(ctx context.Context, id int64) (Tag, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	IsFollowing(ctx context.Context, arg FollowParams) (bool, error)
	ListFollowedAmong(ctx context.Context, arg ListFollowedAmongParams) ([]int64, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]Ingredient, error)
	ListRecentRecipesByAuthors(ctx context.Context, arg ListRecentRecipesByAuthorsParams) ([]ListRecentRecipesByAuthorsRow, error)
	ListRecipes(ctx context.Context, f RecipeFilter) ([]ListRecipesRow, error)
	ListSubscriptions(ctx context.Context, arg ListSubscriptionsParams) ([]ListSubscriptionsRow, error)
	ListTags(ctx context.Context) ([]Tag, error)
	ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error)
	UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error
	UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error
}

var _ Querier = (*Queries)(nil)
