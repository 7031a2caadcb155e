// Package api sets up and starts the API server with routing, middleware
// and Swagger documentation.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/matt-dz/foodgram/docs"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/middleware"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/routes/admin"
	"github.com/matt-dz/foodgram/internal/api/routes/auth"
	"github.com/matt-dz/foodgram/internal/api/routes/ingredients"
	"github.com/matt-dz/foodgram/internal/api/routes/ping"
	"github.com/matt-dz/foodgram/internal/api/routes/recipes"
	"github.com/matt-dz/foodgram/internal/api/routes/tags"
	"github.com/matt-dz/foodgram/internal/api/routes/users"
	"github.com/matt-dz/foodgram/internal/edge"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/role"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func docsHandler(hostOrigin string) http.Handler {
	swagger := httpSwagger.Handler(
		httpSwagger.URL(hostOrigin+"/api/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			swagger.ServeHTTP(w, r)
		default:
			handleMethodNotAllowed(w, r)
		}
	})
}

func addRoutes(router chi.Router, docs http.Handler) {
	router.Route("/api", func(r chi.Router) {
		r.Mount("/swagger", docs)
		r.Get("/ping", ping.HandlePing)
		r.Get("/ready", ping.HandleReady)

		r.Route("/auth/token", func(r chi.Router) {
			r.Post("/login", auth.HandleLogin)
			r.With(middleware.RequireViewer).Post("/logout", auth.HandleLogout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.HandleRegister)
			r.Get("/", users.HandleListUsers)
			r.Get("/{id}", users.HandleGetUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireViewer)
				r.Get("/me", users.HandleGetMe)
				r.Post("/set_password", users.HandleSetPassword)
				r.Get("/subscriptions", users.HandleListSubscriptions)
				r.Post("/{id}/subscribe", users.HandleSubscribe)
				r.Delete("/{id}/subscribe", users.HandleUnsubscribe)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.HandleListTags)
			r.Get("/{id}", tags.HandleGetTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ingredients.HandleListIngredients)
			r.Get("/{id}", ingredients.HandleGetIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.HandleListRecipes)
			r.Get("/{id}", recipes.HandleGetRecipe)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireViewer)
				r.Post("/", recipes.HandleCreateRecipe)
				r.Get("/download_shopping_cart", recipes.HandleDownloadShoppingCart)
				r.Patch("/{id}", recipes.HandleUpdateRecipe)
				r.Delete("/{id}", recipes.HandleDeleteRecipe)
				r.Post("/{id}/favorite", recipes.AddEdge(edge.Favorite))
				r.Delete("/{id}/favorite", recipes.RemoveEdge(edge.Favorite))
				r.Post("/{id}/shopping_cart", recipes.AddEdge(edge.ShoppingCart))
				r.Delete("/{id}/shopping_cart", recipes.RemoveEdge(edge.ShoppingCart))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(role.RoleAdmin))
			r.Post("/tags", admin.HandleCreateTag)
		})
	})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	requestID := requestid.String(r.Context())
	_ = apiError.EncodeError(w, apiError.RouteNotFound, "route not found", requestID)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	requestID := requestid.String(r.Context())
	_ = apiError.EncodeError(w, apiError.MethodNotAllowed, "method not allowed", requestID)
}

// NewRouter builds the API handler for env.
func NewRouter(env *env.Env) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.CORS(env.Config.HTTP.AllowedOrigins))
	router.Use(middleware.RateLimit(env.Config.HTTP))
	router.Use(middleware.RecordMetrics)
	router.NotFound(handleNotFound)
	router.MethodNotAllowed(handleMethodNotAllowed)

	router.Handle("/metrics", metrics.Handler())
	if local, ok := env.FileStore.(*filestore.Local); ok {
		prefix := local.URLPrefix()
		router.Handle(prefix+"/*", local.FileServer().Handler(prefix))
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.IdentifyViewer)
		addRoutes(r, docsHandler(env.Config.HostOrigin))
	})
	return router
}

// Start godoc
//
//	@title						Foodgram API
//	@version					1.0
//	@description				API Server for the Foodgram recipe sharing application.
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//
//	@host						localhost:8080
//	@BasePath					/
func Start(ctx context.Context, env *env.Env) error {
	addr := fmt.Sprintf(":%d", env.Config.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(env),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		env.Logger.Info("listening", slog.String("addr", addr))
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	env.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}
