package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matt-dz/foodgram/internal/api"
	"github.com/matt-dz/foodgram/internal/setup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, closeDB, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	if e.FileStore, err = setup.FileStore(setupCtx, e.Config); err != nil {
		return fmt.Errorf("setting up file store: %w", err)
	}

	e.Logger.DebugContext(ctx, "setting up admin")
	if err := setup.Admin(setupCtx, e); err != nil {
		return fmt.Errorf("setting up admin: %w", err)
	}

	return api.Start(ctx, e)
}
