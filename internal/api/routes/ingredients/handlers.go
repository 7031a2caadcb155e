// Package ingredients contains handlers for the ingredient catalog.
package ingredients

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/params"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
)

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func NewIngredientResponse(i database.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// HandleListIngredients godoc
//
//	@Summary		List ingredients.
//	@Description	Unpaginated. The name filter matches a case-insensitive prefix.
//	@Tags			Ingredients
//	@Produce		json
//	@Param			name	query	string	false	"Name prefix"
//	@Success		200		{array}	IngredientResponse
//	@Router			/api/ingredients [get]
func HandleListIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	ingredients, err := env.Database.ListIngredients(ctx, r.URL.Query().Get("name"))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	resp := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		resp[i] = NewIngredientResponse(ing)
	}
	if err := mJson.Write(w, http.StatusOK, resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleGetIngredient godoc
//
//	@Summary	Get an ingredient.
//	@Tags		Ingredients
//	@Produce	json
//	@Param		id	path		int	true	"Ingredient id"
//	@Success	200	{object}	IngredientResponse
//	@Failure	404	{object}	apiError.Error	"Ingredient not found"
//	@Router		/api/ingredients/{id} [get]
func HandleGetIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := params.ID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	}

	ing, err := env.Database.GetIngredient(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := mJson.Write(w, http.StatusOK, NewIngredientResponse(ing)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
