package users

import (
	"github.com/matt-dz/foodgram/internal/api/routes/recipes"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/follow"
	"github.com/matt-dz/foodgram/internal/user"
)

type RegisterResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []recipes.ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                         `json:"recipes_count"`
}

func NewUserResponse(p user.Profile) UserResponse {
	return UserResponse{
		ID:           p.ID,
		Email:        p.Email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		IsSubscribed: p.IsSubscribed,
	}
}

func NewSubscriptionResponse(s follow.Subscription, files filestore.Store) SubscriptionResponse {
	resp := SubscriptionResponse{
		UserResponse: UserResponse{
			ID:           s.ID,
			Email:        s.Email,
			Username:     s.Username,
			FirstName:    s.FirstName,
			LastName:     s.LastName,
			IsSubscribed: s.IsSubscribed,
		},
		Recipes:      make([]recipes.ShortRecipeResponse, len(s.Recipes)),
		RecipesCount: s.RecipesCount,
	}
	for i, r := range s.Recipes {
		resp.Recipes[i] = recipes.NewShortRecipeResponse(r, files)
	}
	return resp
}
