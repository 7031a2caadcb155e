// Package users contains handlers for the user resource.
package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/params"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/follow"
	mJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/user"
	"github.com/matt-dz/foodgram/internal/validation"
	"github.com/matt-dz/foodgram/internal/viewer"
)

func decodeBody(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return mJson.DecodeJSON(dst, decoder)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := mJson.Write(w, status, v); err != nil {
		ctx := r.Context()
		env.EnvFromCtx(ctx).Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

func encodeError(w http.ResponseWriter, r *http.Request, err error, requestID string) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		env.Logger.DebugContext(ctx, "rejecting invalid request", slog.Any("error", err))
		_ = apiError.EncodeValidationError(w, verr, requestID)
	case errors.Is(err, user.ErrNotFound), errors.Is(err, follow.ErrUserNotFound):
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
	case errors.Is(err, user.ErrEmailTaken):
		_ = apiError.EncodeError(w, apiError.EmailConflict, "email is already registered", requestID)
	case errors.Is(err, user.ErrUsernameTaken):
		_ = apiError.EncodeError(w, apiError.UsernameConflict, "username is already taken", requestID)
	case errors.Is(err, follow.ErrSelfFollow):
		_ = apiError.EncodeError(w, apiError.SelfFollowNotAllowed, "cannot subscribe to yourself", requestID)
	case errors.Is(err, follow.ErrAlreadyFollowing):
		_ = apiError.EncodeError(w, apiError.AlreadyFollowing, "already subscribed to user", requestID)
	case errors.Is(err, follow.ErrNotFollowing):
		_ = apiError.EncodeError(w, apiError.NotFollowing, "not subscribed to user", requestID)
	default:
		env.Logger.ErrorContext(ctx, "user operation failed", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
	}
}

// HandleRegister godoc
//
//	@Summary	Register a user.
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		RegisterRequest	true	"New user"
//	@Success	201		{object}	RegisterResponse
//	@Failure	400		{object}	apiError.Error	"Validation error or conflict"
//	@Router		/api/users [post]
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "reading request body")
	var request RegisterRequest
	if err := decodeBody(r, &request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "registering user")
	id, err := user.Register(ctx, env.Database, request)
	if err != nil {
		encodeError(w, r, err, requestID)
		return
	}

	created, err := user.GetProfile(ctx, env.Database, viewer.Anonymous(), id)
	if err != nil {
		encodeError(w, r, err, requestID)
		return
	}
	writeJSON(w, r, http.StatusCreated, RegisterResponse{
		ID:        created.ID,
		Email:     created.Email,
		Username:  created.Username,
		FirstName: created.FirstName,
		LastName:  created.LastName,
	})
}

// HandleListUsers godoc
//
//	@Summary	List users.
//	@Tags		Users
//	@Produce	json
//	@Param		page	query		int	false	"Page number"
//	@Param		limit	query		int	false	"Page size"
//	@Success	200		{array}		UserResponse
//	@Router		/api/users [get]
func HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	page, err := params.Pagination(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}

	profiles, err := user.ListProfiles(ctx, env.Database, token.ViewerFromCtx(ctx),
		int32(page.Limit), int32(page.Offset))
	if err != nil {
		encodeError(w, r, err, requestID)
		return
	}
	resp := make([]UserResponse, len(profiles))
	for i, p := range profiles {
		resp[i] = NewUserResponse(p)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// HandleGetUser godoc
//
//	@Summary	Get a user.
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		int	true	"User id"
//	@Success	200	{object}	UserResponse
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Router		/api/users/{id} [get]
func HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := params.ID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}

	profile, err := user.GetProfile(ctx, env.Database, token.ViewerFromCtx(ctx), id)
	if err != nil {
		encodeError(w, r, err, requestID)
		return
	}
	writeJSON(w, r, http.StatusOK, NewUserResponse(profile))
}

// HandleGetMe godoc
//
//	@Summary	Get the current user.
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	UserResponse
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	BearerAuth
//	@Router		/api/users/me [get]
func HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	v := token.ViewerFromCtx(ctx)

	profile, err := user.GetProfile(ctx, env.Database, v, v.ID)
	if err != nil {
		encodeError(w, r, err, requestID)
		return
	}
	writeJSON(w, r, http.StatusOK, NewUserResponse(profile))
}

// HandleSetPassword godoc
//
//	@Summary	Change the current user's password.
//	@Tags		Users
//	@Accept		json
//	@Param		request	body	SetPasswordRequest	true	"Passwords"
//	@Success	204
//	@Failure	400	{object}	apiError.Error	"Validation error"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	BearerAuth
//	@Router		/api/users/set_password [post]
func HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	var request SetPasswordRequest
	if err := decodeBody(r, &request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "changing password")
	if err := user.ChangePassword(ctx, env.Database, token.ViewerFromCtx(ctx).ID, request); err != nil {
		encodeError(w, r, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListSubscriptions godoc
//
//	@Summary	List the users the current user follows.
//	@Tags		Users
//	@Produce	json
//	@Param		page			query		int	false	"Page number"
//	@Param		limit			query		int	false	"Page size"
//	@Param		recipes_limit	query		int	false	"Recipes per user"
//	@Success	200				{array}		SubscriptionResponse
//	@Failure	401				{object}	apiError.Error	"Unauthorized"
//	@Security	BearerAuth
//	@Router		/api/users/subscriptions [get]
func HandleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	page, err := params.Pagination(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}
	recipesLimit, err := params.OptionalInt32(r, "recipes_limit")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipes_limit", requestID)
		return
	}

	subs, err := follow.ListSubscriptions(ctx, env.Database, token.ViewerFromCtx(ctx).ID,
		int32(page.Limit), int32(page.Offset), recipesLimit)
	if err != nil {
		encodeError(w, r, err, requestID)
		return
	}
	resp := make([]SubscriptionResponse, len(subs))
	for i, s := range subs {
		resp[i] = NewSubscriptionResponse(s, env.FileStore)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// HandleSubscribe godoc
//
//	@Summary	Follow a user.
//	@Tags		Users
//	@Produce	json
//	@Param		id				path		int	true	"User id"
//	@Param		recipes_limit	query		int	false	"Recipes in the response"
//	@Success	201				{object}	SubscriptionResponse
//	@Failure	400				{object}	apiError.Error	"Self follow or already following"
//	@Failure	404				{object}	apiError.Error	"User not found"
//	@Security	BearerAuth
//	@Router		/api/users/{id}/subscribe [post]
func HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := params.ID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}
	recipesLimit, err := params.OptionalInt32(r, "recipes_limit")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipes_limit", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "following user", slog.Int64("target-id", id))
	if err := follow.Follow(ctx, env.Database, token.ViewerFromCtx(ctx).ID, id); err != nil {
		encodeError(w, r, err, requestID)
		return
	}

	sub, err := follow.GetSubscription(ctx, env.Database, id, recipesLimit)
	if err != nil {
		encodeError(w, r, err, requestID)
		return
	}
	writeJSON(w, r, http.StatusCreated, NewSubscriptionResponse(sub, env.FileStore))
}

// HandleUnsubscribe godoc
//
//	@Summary	Unfollow a user.
//	@Tags		Users
//	@Param		id	path	int	true	"User id"
//	@Success	204
//	@Failure	400	{object}	apiError.Error	"Not following"
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Security	BearerAuth
//	@Router		/api/users/{id}/subscribe [delete]
func HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := params.ID(r, "id")
	if err != nil {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "unfollowing user", slog.Int64("target-id", id))
	if err := follow.Unfollow(ctx, env.Database, token.ViewerFromCtx(ctx).ID, id); err != nil {
		encodeError(w, r, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
