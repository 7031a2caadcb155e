// Package admin contains handlers for the admin endpoints
package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/routes/tags"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/seed"
	"github.com/matt-dz/foodgram/internal/validation"
)

type CreateTagRequest = seed.TagRecord

var validate = validation.NewValidator()

// HandleCreateTag godoc
//
//	@Summary		Create a tag.
//	@Description	The slug is derived from the name when omitted.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTagRequest	true	"Tag"
//	@Success		201		{object}	tags.TagResponse
//	@Failure		400		{object}	apiError.Error	"Validation error or duplicate tag"
//	@Failure		403		{object}	apiError.Error	"Insufficient permissions"
//	@Security		BearerAuth
//	@Router			/api/admin/tags [post]
func HandleCreateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "reading request body")
	var request CreateTagRequest
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := mJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	var verr *validation.Error
	if err := validation.FromValidator(validate.Struct(request)); errors.As(err, &verr) {
		_ = apiError.EncodeValidationError(w, verr, requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	params, err := seed.TagParams(request)
	if errors.Is(err, seed.ErrNoSlug) {
		_ = apiError.EncodeValidationError(w, validation.Field("slug", "cannot be derived from the name"), requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to prepare tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating tag", slog.String("slug", params.Slug))
	tag, err := env.Database.CreateTag(ctx, params)
	if database.IsUniqueViolation(err) {
		_ = apiError.EncodeError(w, apiError.TagConflict, "a tag with this name, color or slug exists", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := mJson.Write(w, http.StatusCreated, tags.NewTagResponse(tag)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
