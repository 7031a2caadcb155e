// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/log"
)

type envKeyType struct{}

var envKey envKeyType

type Env struct {
	Logger    *slog.Logger
	Database  database.Store
	FileStore filestore.Store
	Config    config.Config
}

func New(lg *slog.Logger) *Env {
	if lg == nil {
		lg = log.NullLogger()
	}

	return &Env{
		Logger: lg,
	}
}

func Null() *Env {
	return New(nil)
}

// AppSecret returns the key access tokens are signed with.
func (e *Env) AppSecret() []byte {
	if e.Config.AppSecret.Value == nil {
		return nil
	}
	return []byte(*e.Config.AppSecret.Value)
}

// IsProd reports whether the service runs in production mode.
func (e *Env) IsProd() bool {
	return e.Config.Env == config.EnvProd
}

func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx returns the Env stored in ctx, or a null Env if there is none.
func EnvFromCtx(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey).(*Env); ok && env != nil {
		return env
	}
	return Null()
}
