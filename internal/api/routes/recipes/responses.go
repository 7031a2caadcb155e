package recipes

import (
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/recipe"
)

type AuthorResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                `json:"id"`
	Tags             []TagResponse        `json:"tags"`
	Author           AuthorResponse       `json:"author"`
	Ingredients      []IngredientResponse `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Description      string               `json:"description"`
	CookingTime      int32                `json:"cooking_time"`
}

type ShortRecipeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int32  `json:"cooking_time"`
}

func NewRecipeResponse(r recipe.Recipe, files filestore.Store) RecipeResponse {
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
	}
	ingredients := make([]IngredientResponse, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = IngredientResponse{
			ID:              ing.ID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Amount:          ing.Amount,
		}
	}
	return RecipeResponse{
		ID:   r.ID,
		Tags: tags,
		Author: AuthorResponse{
			ID:           r.Author.ID,
			Email:        r.Author.Email,
			Username:     r.Author.Username,
			FirstName:    r.Author.FirstName,
			LastName:     r.Author.LastName,
			IsSubscribed: r.Author.IsSubscribed,
		},
		Ingredients:      ingredients,
		IsFavorited:      r.IsFavorited,
		IsInShoppingCart: r.IsInShoppingCart,
		Name:             r.Name,
		Image:            imageURL(files, r.Image),
		Description:      r.Description,
		CookingTime:      r.CookingTime,
	}
}

func NewShortRecipeResponse(r database.ShortRecipe, files filestore.Store) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       imageURL(files, r.Image),
		CookingTime: r.CookingTime,
	}
}

func imageURL(files filestore.Store, key string) string {
	if files == nil || key == "" {
		return key
	}
	return files.FileURL(key)
}
