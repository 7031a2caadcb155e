// Package auth contains handlers for the auth endpoints
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/role"
	"github.com/matt-dz/foodgram/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AuthToken string `json:"auth_token"`
}

// HandleLogin godoc
//
//	@Summary		Obtain an access token.
//	@Description	The token is returned in the body and set as an HttpOnly cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	apiError.Error	"Invalid credentials"
//	@Router			/api/auth/token/login [post]
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "reading request body")
	var request LoginRequest
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := mJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	if request.Email == "" || request.Password == "" {
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email and password are required", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "authenticating user")
	u, err := user.Authenticate(ctx, env.Database, request.Email, request.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		env.Logger.DebugContext(ctx, "invalid credentials")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email or password is incorrect", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to authenticate user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	accessToken, err := token.NewAccessToken(jwt.JWTParams{
		UserID: u.ID,
		Role:   role.FromDB(u.Role).String(),
	}, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, env))
	if err := mJson.Write(w, http.StatusOK, LoginResponse{AuthToken: accessToken}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleLogout godoc
//
//	@Summary		Drop the access token cookie.
//	@Description	Tokens are stateless; a token copied elsewhere stays valid until it expires.
//	@Tags			Auth
//	@Success		204
//	@Failure		401	{object}	apiError.Error	"Unauthorized"
//	@Security		BearerAuth
//	@Router			/api/auth/token/logout [post]
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	env := env.EnvFromCtx(r.Context())
	http.SetCookie(w, token.ExpiredAccessTokenCookie(env))
	w.WriteHeader(http.StatusNoContent)
}
