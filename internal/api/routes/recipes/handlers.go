// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/params"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/edge"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/recipe"
	"github.com/matt-dz/foodgram/internal/shopping"
	"github.com/matt-dz/foodgram/internal/validation"
)

const (
	maxBodySize          = 16 << 20 // ~ 16 MB, room for a base64 image
	shoppingListFilename = "shopping_cart.txt"
)

func service(env *env.Env) *recipe.Service {
	return recipe.New(env.Database, env.FileStore, env.Logger)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return mJson.DecodeJSON(dst, decoder)
}

// encodeServiceError writes the response for an error returned by the
// recipe service.
func encodeServiceError(w http.ResponseWriter, r *http.Request, err error, requestID string) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		env.Logger.DebugContext(ctx, "rejecting invalid recipe", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, verr, requestID)
	case errors.Is(err, recipe.ErrNotFound):
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
	case errors.Is(err, recipe.ErrForbidden):
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "user does not own recipe", requestID)
	default:
		env.Logger.ErrorContext(ctx, "recipe operation failed", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
	}
}

func writeRecipe(w http.ResponseWriter, r *http.Request, id int64, status int, requestID string) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	created, err := service(env).Get(ctx, token.ViewerFromCtx(ctx), id)
	if err != nil {
		encodeServiceError(w, r, err, requestID)
		return
	}
	if err := mJson.Write(w, status, NewRecipeResponse(created, env.FileStore)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleListRecipes godoc
//
//	@Summary		List recipes.
//	@Description	Newest first. Favorited and cart filters apply to authenticated viewers only.
//	@Tags			Recipes
//	@Produce		json
//	@Param			tags				query	[]string	false	"Tag slugs, any of"
//	@Param			author				query	int			false	"Author id"
//	@Param			is_favorited		query	int			false	"1 to list favorites"
//	@Param			is_in_shopping_cart	query	int			false	"1 to list the shopping cart"
//	@Param			page				query	int			false	"Page number"
//	@Param			limit				query	int			false	"Page size"
//	@Success		200	{array}		RecipeResponse
//	@Failure		400	{object}	apiError.Error	"Bad query parameters"
//	@Router			/api/recipes [get]
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	page, err := params.Pagination(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}
	author, err := params.OptionalInt64(r, "author")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid author", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "listing recipes")
	recipes, err := service(env).List(ctx, token.ViewerFromCtx(ctx), recipe.Filter{
		Tags:             r.URL.Query()["tags"],
		AuthorID:         author,
		IsFavorited:      params.Flag(r, "is_favorited"),
		IsInShoppingCart: params.Flag(r, "is_in_shopping_cart"),
		Limit:            uint64(page.Limit),
		Offset:           uint64(page.Offset),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp := make([]RecipeResponse, len(recipes))
	for i, rec := range recipes {
		resp[i] = NewRecipeResponse(rec, env.FileStore)
	}
	if err := mJson.Write(w, http.StatusOK, resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleGetRecipe godoc
//
//	@Summary	Get a recipe.
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe id"
//	@Success	200	{object}	RecipeResponse
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Router		/api/recipes/{id} [get]
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := params.ID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}
	writeRecipe(w, r, id, http.StatusOK, requestID)
}

// HandleCreateRecipe godoc
//
//	@Summary	Create a recipe.
//	@Tags		Recipes
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateRecipeRequest	true	"Recipe"
//	@Success	201		{object}	RecipeResponse
//	@Failure	400		{object}	apiError.Error	"Validation error"
//	@Failure	401		{object}	apiError.Error	"Unauthorized"
//	@Security	BearerAuth
//	@Router		/api/recipes [post]
func HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	viewer := token.ViewerFromCtx(ctx)

	env.Logger.DebugContext(ctx, "reading request body")
	var request CreateRecipeRequest
	if err := decodeBody(w, r, &request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating recipe")
	id, err := service(env).Create(ctx, viewer.ID, request)
	if err != nil {
		encodeServiceError(w, r, err, requestID)
		return
	}
	writeRecipe(w, r, id, http.StatusCreated, requestID)
}

// HandleUpdateRecipe godoc
//
//	@Summary		Update a recipe.
//	@Description	Only the given fields change. Tags and ingredients, when given, replace the previous set.
//	@Tags			Recipes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Recipe id"
//	@Param			request	body		UpdateRecipeRequest	true	"Changes"
//	@Success		200		{object}	RecipeResponse
//	@Failure		400		{object}	apiError.Error	"Validation error"
//	@Failure		403		{object}	apiError.Error	"User does not own recipe"
//	@Failure		404		{object}	apiError.Error	"Recipe not found"
//	@Security		BearerAuth
//	@Router			/api/recipes/{id} [patch]
func HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := params.ID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	var request UpdateRecipeRequest
	if err := decodeBody(w, r, &request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "updating recipe", slog.Int64("recipe-id", id))
	if err := service(env).Update(ctx, token.ViewerFromCtx(ctx), id, request); err != nil {
		encodeServiceError(w, r, err, requestID)
		return
	}
	writeRecipe(w, r, id, http.StatusOK, requestID)
}

// HandleDeleteRecipe godoc
//
//	@Summary	Delete a recipe.
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe id"
//	@Success	204
//	@Failure	403	{object}	apiError.Error	"User does not own recipe"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id} [delete]
func HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := params.ID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "deleting recipe", slog.Int64("recipe-id", id))
	if err := service(env).Delete(ctx, token.ViewerFromCtx(ctx), id); err != nil {
		encodeServiceError(w, r, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type edgeCodes struct {
	exists, missing       apiError.ErrorCode
	existsMsg, missingMsg string
}

var edgeErrorCodes = map[edge.Kind]edgeCodes{
	edge.Favorite: {
		exists:     apiError.AlreadyFavorited,
		missing:    apiError.NotFavorited,
		existsMsg:  "recipe is already in favorites",
		missingMsg: "recipe is not in favorites",
	},
	edge.ShoppingCart: {
		exists:     apiError.AlreadyInCart,
		missing:    apiError.NotInCart,
		existsMsg:  "recipe is already in the shopping cart",
		missingMsg: "recipe is not in the shopping cart",
	},
}

func edgeOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, edge.ErrAlreadyExists):
		return metrics.OutcomeConflict
	case errors.Is(err, edge.ErrNotFound), errors.Is(err, edge.ErrRecipeNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func encodeEdgeError(w http.ResponseWriter, r *http.Request, kind edge.Kind, err error, requestID string) {
	ctx := r.Context()
	codes := edgeErrorCodes[kind]
	switch {
	case errors.Is(err, edge.ErrRecipeNotFound):
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
	case errors.Is(err, edge.ErrAlreadyExists):
		_ = apiError.EncodeError(w, codes.exists, codes.existsMsg, requestID)
	case errors.Is(err, edge.ErrNotFound):
		_ = apiError.EncodeError(w, codes.missing, codes.missingMsg, requestID)
	default:
		env.EnvFromCtx(ctx).Logger.ErrorContext(ctx, "failed to toggle "+kind.String(), slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
	}
}

// AddEdge returns the handler creating the kind edge between the viewer
// and the recipe in the path.
//
//	@Summary	Add a recipe to favorites or to the shopping cart.
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe id"
//	@Success	201	{object}	ShortRecipeResponse
//	@Failure	400	{object}	apiError.Error	"Already added"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/favorite [post]
//	@Router		/api/recipes/{id}/shopping_cart [post]
func AddEdge(kind edge.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		env := env.EnvFromCtx(ctx)
		requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

		id, err := params.ID(r, "id")
		if err != nil {
			_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
			return
		}

		env.Logger.DebugContext(ctx, "adding "+kind.String(), slog.Int64("recipe-id", id))
		short, err := edge.Add(ctx, env.Database, kind, token.ViewerFromCtx(ctx).ID, id)
		metrics.RecordEdgeToggle(kind.String(), "add", edgeOutcome(err))
		if err != nil {
			encodeEdgeError(w, r, kind, err, requestID)
			return
		}
		if err := mJson.Write(w, http.StatusCreated, NewShortRecipeResponse(short, env.FileStore)); err != nil {
			env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		}
	}
}

// RemoveEdge returns the handler deleting the kind edge between the viewer
// and the recipe in the path.
//
//	@Summary	Remove a recipe from favorites or from the shopping cart.
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe id"
//	@Success	204
//	@Failure	400	{object}	apiError.Error	"Not added"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/favorite [delete]
//	@Router		/api/recipes/{id}/shopping_cart [delete]
func RemoveEdge(kind edge.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		env := env.EnvFromCtx(ctx)
		requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

		id, err := params.ID(r, "id")
		if err != nil {
			_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
			return
		}

		env.Logger.DebugContext(ctx, "removing "+kind.String(), slog.Int64("recipe-id", id))
		err = edge.Remove(ctx, env.Database, kind, token.ViewerFromCtx(ctx).ID, id)
		metrics.RecordEdgeToggle(kind.String(), "remove", edgeOutcome(err))
		if err != nil {
			encodeEdgeError(w, r, kind, err, requestID)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleDownloadShoppingCart godoc
//
//	@Summary		Download the shopping list.
//	@Description	Ingredient amounts of every recipe in the cart, summed per ingredient and unit.
//	@Tags			Recipes
//	@Produce		plain
//	@Success		200	{string}	string			"name: amount (unit) lines"
//	@Failure		401	{object}	apiError.Error	"Unauthorized"
//	@Failure		404	{object}	apiError.Error	"Cart is empty"
//	@Security		BearerAuth
//	@Router			/api/recipes/download_shopping_cart [get]
func HandleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "building shopping list")
	lines, err := shopping.Build(ctx, env.Database, token.ViewerFromCtx(ctx).ID)
	if errors.Is(err, shopping.ErrCartEmpty) {
		metrics.RecordShoppingListDownload(metrics.OutcomeEmpty)
		_ = apiError.EncodeError(w, apiError.CartEmpty, "cart is empty", requestID)
		return
	} else if err != nil {
		metrics.RecordShoppingListDownload(metrics.OutcomeError)
		env.Logger.ErrorContext(ctx, "failed to build shopping list", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	var body bytes.Buffer
	if err := shopping.Render(&body, lines); err != nil {
		metrics.RecordShoppingListDownload(metrics.OutcomeError)
		env.Logger.ErrorContext(ctx, "failed to render shopping list", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	metrics.RecordShoppingListDownload(metrics.OutcomeSuccess)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := body.WriteTo(w); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
