package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/matt-dz/foodgram/internal/seed"
)

var (
	importFile  string
	importForce bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load catalog data from JSON files",
}

var importIngredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "Load the ingredient catalog",
	Long: `Load ingredients from a JSON array of {"name", "measurement_unit"} objects.

A populated catalog is left alone unless --force is given. Forcing replaces
the catalog and drops the ingredients from every recipe.`,
	RunE: runImportIngredients,
}

var importTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Load tags",
	Long: `Load tags from a JSON array of {"name", "color", "slug"} objects.

Existing tags are kept. A missing slug is derived from the name.`,
	RunE: runImportTags,
}

func init() {
	for _, c := range []*cobra.Command{importIngredientsCmd, importTagsCmd} {
		c.Flags().StringVarP(&importFile, "file", "f", "", "path to the JSON file")
		_ = c.MarkFlagRequired("file")
		importCmd.AddCommand(c)
	}
	importIngredientsCmd.Flags().BoolVar(&importForce, "force", false, "replace a populated catalog")
}

func runImportIngredients(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("opening ingredient file: %w", err)
	}
	defer func() { _ = f.Close() }()

	e, closeDB, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := seed.ImportIngredients(ctx, e.Database, f, importForce)
	if errors.Is(err, seed.ErrCatalogPopulated) {
		e.Logger.InfoContext(ctx, "ingredient catalog already populated, use --force to replace it")
		return nil
	} else if err != nil {
		return fmt.Errorf("importing ingredients: %w", err)
	}
	e.Logger.InfoContext(ctx, "imported ingredients", slog.Int64("count", n))
	return nil
}

func runImportTags(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("opening tag file: %w", err)
	}
	defer func() { _ = f.Close() }()

	e, closeDB, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	n, err := seed.ImportTags(ctx, e.Database, f)
	if err != nil {
		return fmt.Errorf("importing tags: %w", err)
	}
	e.Logger.InfoContext(ctx, "imported tags", slog.Int64("count", n))
	return nil
}
