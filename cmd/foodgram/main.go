package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/setup"
)

const setupTime = 30 * time.Second

var rootCmd = &cobra.Command{
	Use:   "foodgram",
	Short: "Recipe sharing API server",
	Long: `Foodgram serves the recipe sharing API: recipes, tags, ingredients,
users, subscriptions, favorites and the shopping cart.

Configuration is read from the YAML file at CONFIG_PATH, falling back to
environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}

// bootstrap loads the config and opens the database. The returned Env has
// no file store.
func bootstrap(ctx context.Context) (*env.Env, func(), error) {
	conf, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger := log.New(nil, log.LevelForEnv(conf.Env))

	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	db, err := setup.Database(setupCtx, conf.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up database: %w", err)
	}

	e := env.New(logger)
	e.Database = db
	e.Config = conf
	return e, db.Close, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
