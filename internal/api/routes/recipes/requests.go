package recipes

import "github.com/matt-dz/foodgram/internal/recipe"

type CreateRecipeRequest = recipe.CreateParams

type UpdateRecipeRequest = recipe.UpdateParams
