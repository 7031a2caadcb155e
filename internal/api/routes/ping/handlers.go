// Package ping contains handlers for pinging the server
package ping

import (
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/env"
)

// HandlePing godoc
//
//	@Summary	Ping endpoint.
//	@Tags		Ping
//
//	@Success	200
//	@Router		/api/ping [GET]
func HandlePing(w http.ResponseWriter, r *http.Request) {}

// HandleReady godoc
//
//	@Summary		Readiness endpoint.
//	@Description	Succeeds once the database answers.
//	@Tags			Ping
//
//	@Success		200
//	@Failure		500	{object}	apiError.Error	"Database unavailable"
//	@Router			/api/ready [GET]
func HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	if _, err := env.Database.GetAdminCount(ctx); err != nil {
		env.Logger.ErrorContext(ctx, "database not ready", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, strconv.FormatUint(requestid.ExtractRequestID(ctx), 10))
		return
	}
	w.WriteHeader(http.StatusOK)
}
