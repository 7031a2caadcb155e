// Package shopping merges the ingredients of every recipe in a user's cart
// into one list.
package shopping

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/matt-dz/foodgram/internal/database"
)

var ErrCartEmpty = errors.New("cart is empty")

// Line is the total amount of one ingredient in one unit.
type Line struct {
	Name   string
	Unit   string
	Amount int64
}

func (l Line) String() string {
	return fmt.Sprintf("%s: %d (%s)", l.Name, l.Amount, l.Unit)
}

type lineKey struct {
	name, unit string
}

// Consolidate sums amounts per (name, unit) and sorts by name, then unit.
// Different units of the same ingredient stay separate lines.
func Consolidate(rows []database.GetShoppingCartIngredientsRow) []Line {
	totals := make(map[lineKey]int64, len(rows))
	for _, row := range rows {
		totals[lineKey{row.Name, row.MeasurementUnit}] += int64(row.Amount)
	}

	lines := make([]Line, 0, len(totals))
	for k, amount := range totals {
		lines = append(lines, Line{Name: k.name, Unit: k.unit, Amount: amount})
	}
	slices.SortFunc(lines, func(a, b Line) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Unit, b.Unit))
	})
	return lines
}

// Build returns the consolidated list for userID, or ErrCartEmpty when no
// ingredient is reachable from the cart.
func Build(ctx context.Context, db database.Querier, userID int64) ([]Line, error) {
	rows, err := db.GetShoppingCartIngredients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting cart ingredients: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrCartEmpty
	}
	return Consolidate(rows), nil
}

// Render writes the lines separated by newlines.
func Render(w io.Writer, lines []Line) error {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	_, err := io.WriteString(w, strings.Join(out, "\n"))
	return err
}
