// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/golang-jwt/jwt/v5"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	fgJwt "github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/role"
	"github.com/matt-dz/foodgram/internal/viewer"
)

const corsMaxAge = 86400

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			if id := requestid.ExtractRequestID(r.Context()); id != 0 {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := requestid.New()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// CORS allows credentialed requests from origins.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	})
}

// RateLimit limits requests per client IP. It is a no-op when the limit is
// not configured.
func RateLimit(cfg config.HTTP) func(http.Handler) http.Handler {
	if !cfg.RateLimitEnabled() {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		cfg.RateLimitRequests,
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			requestID := requestid.String(r.Context())
			_ = apiError.EncodeError(w, apiError.TooManyRequests, "too many requests", requestID)
		}),
	)
}

// RecordMetrics observes request duration labelled by the matched route.
func RecordMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordRequest(route, r.Method, status, time.Since(start))
	})
}

// IdentifyViewer resolves the access token, if any, into the request
// viewer. Requests without a token continue anonymously; a token that does
// not validate is rejected.
func IdentifyViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		env := env.EnvFromCtx(ctx)
		requestID := requestid.String(ctx)

		raw, err := token.FromRequest(r, env)
		if errors.Is(err, token.ErrNoToken) {
			next.ServeHTTP(w, r.WithContext(token.ViewerWithCtx(ctx, viewer.Anonymous())))
			return
		} else if err != nil {
			env.Logger.ErrorContext(ctx, "unable to read access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		secret := env.AppSecret()
		if len(secret) == 0 {
			env.Logger.ErrorContext(ctx, "app secret not configured")
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}

		params, err := fgJwt.ValidateJWT(raw, token.KeyVersion(env), secret)
		if errors.Is(err, jwt.ErrTokenExpired) {
			env.Logger.ErrorContext(ctx, "access token expired", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.ExpiredAccessToken, "access token expired", requestID)
			return
		} else if err != nil {
			env.Logger.ErrorContext(ctx, "invalid access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		v := viewer.Authenticated(params.UserID, role.Parse(params.Role))
		ctx = log.AppendCtx(ctx, slog.Int64("user-id", v.ID))
		env.Logger.DebugContext(ctx, "identified viewer", slog.String("role", v.Role.String()))
		next.ServeHTTP(w, r.WithContext(token.ViewerWithCtx(ctx, v)))
	})
}

// RequireViewer rejects anonymous requests.
func RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if token.ViewerFromCtx(ctx).IsAnonymous() {
			requestID := requestid.String(ctx)
			env.EnvFromCtx(ctx).Logger.DebugContext(ctx, "rejecting anonymous request")
			_ = apiError.EncodeError(w, apiError.NotAuthenticated,
				"authentication credentials were not provided", requestID)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects viewers below min. Anonymous viewers get 401.
func RequireRole(min role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			v := token.ViewerFromCtx(ctx)
			requestID := requestid.String(ctx)
			if v.IsAnonymous() {
				_ = apiError.EncodeError(w, apiError.NotAuthenticated,
					"authentication credentials were not provided", requestID)
				return
			}
			if !v.Role.AtLeast(min) {
				env.EnvFromCtx(ctx).Logger.DebugContext(ctx, "insufficient role",
					slog.String("role", v.Role.String()), slog.String("required", min.String()))
				_ = apiError.EncodeError(w, apiError.InsufficientPermissions, "insufficient permissions", requestID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
