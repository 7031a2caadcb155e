// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
)

// DatabaseURL builds the postgres connection string for c.
func DatabaseURL(c config.Database) (string, error) {
	if c.Host == "" {
		return "", NewMissingSettingError("database.host")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port))),
		Path:   "/" + c.Database,
	}
	return u.String(), nil
}

// Database connects to postgres and applies the schema when it is missing.
func Database(ctx context.Context, c config.Database) (*database.Database, error) {
	dsn, err := DatabaseURL(c)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := database.EnsureSchema(db, ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

// Admin creates the configured admin if no admin exists yet. Requires
// env.Database.
func Admin(ctx context.Context, env *env.Env) error {
	count, err := env.Database.GetAdminCount(ctx)
	if err != nil {
		return fmt.Errorf("getting admin count: %w", err)
	}
	if count > 0 {
		env.Logger.InfoContext(ctx, "admin already setup, skipping setup")
		return nil
	}

	admin := env.Config.Admin
	if admin.Email == "" || admin.Password == "" {
		env.Logger.InfoContext(ctx, "admin email and password not configured, skipping admin setup")
		return nil
	}

	hashedPassword, err := argon2id.Hash(string(admin.Password))
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	username := admin.Username
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	id, err := env.Database.CreateAdmin(ctx, database.CreateUserParams{
		Email:        email,
		Username:     strings.TrimSpace(username),
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	env.Logger.InfoContext(ctx, "successfully setup admin", slog.Int64("user-id", id))
	return nil
}

// FileStore builds the image store selected by c.
func FileStore(ctx context.Context, c config.Config) (filestore.Store, error) {
	fsConf := c.FileStore
	switch fsConf.Backend {
	case config.FileStoreS3:
		if fsConf.S3.Bucket == "" {
			return nil, NewMissingSettingError("filestore.s3.bucket")
		}
		store, err := filestore.NewS3(ctx, filestore.S3Options{
			Endpoint:        fsConf.S3.Endpoint,
			Region:          fsConf.S3.Region,
			Bucket:          fsConf.S3.Bucket,
			AccessKeyID:     fsConf.S3.AccessKeyID,
			SecretAccessKey: fsConf.S3.SecretAccessKey,
			PublicURL:       fsConf.S3.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("creating s3 store: %w", err)
		}
		return store, nil
	default:
		if fsConf.Volume == "" {
			return nil, NewMissingSettingError("filestore.volume")
		}
		volume, err := filepath.Abs(fsConf.Volume)
		if err != nil {
			return nil, fmt.Errorf("resolving filestore volume: %w", err)
		}
		urlPrefix := fsConf.URLPrefix
		if urlPrefix == "" {
			urlPrefix = filestore.DefaultURLPrefix
		}
		return filestore.NewLocal(volume, urlPrefix, c.HostOrigin), nil
	}
}
