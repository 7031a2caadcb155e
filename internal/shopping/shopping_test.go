package shopping

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/database"
)

func TestConsolidate(t *testing.T) {
	tests := []struct {
		name string
		rows []database.GetShoppingCartIngredientsRow
		want string
	}{
		{
			name: "sums across recipes",
			rows: []database.GetShoppingCartIngredientsRow{
				{Name: "flour", MeasurementUnit: "g", Amount: 200},
				{Name: "flour", MeasurementUnit: "g", Amount: 100},
				{Name: "egg", MeasurementUnit: "pcs", Amount: 2},
			},
			want: "egg: 2 (pcs)\nflour: 300 (g)",
		},
		{
			name: "units are not converted",
			rows: []database.GetShoppingCartIngredientsRow{
				{Name: "sugar", MeasurementUnit: "kg", Amount: 1},
				{Name: "sugar", MeasurementUnit: "g", Amount: 50},
				{Name: "sugar", MeasurementUnit: "g", Amount: 25},
			},
			want: "sugar: 75 (g)\nsugar: 1 (kg)",
		},
		{
			name: "single line",
			rows: []database.GetShoppingCartIngredientsRow{
				{Name: "salt", MeasurementUnit: "pinch", Amount: 1},
			},
			want: "salt: 1 (pinch)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			if err := Render(&b, Consolidate(tt.rows)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, b.String())
			}
		})
	}
}

func TestBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockStore(ctrl)

	mockDB.EXPECT().
		GetShoppingCartIngredients(gomock.Any(), int64(1)).
		Return([]database.GetShoppingCartIngredientsRow{{Name: "egg", MeasurementUnit: "pcs", Amount: 2}}, nil)
	mockDB.EXPECT().
		GetShoppingCartIngredients(gomock.Any(), int64(2)).
		Return(nil, nil)

	lines, err := Build(context.Background(), mockDB, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != (Line{Name: "egg", Unit: "pcs", Amount: 2}) {
		t.Errorf("unexpected lines %+v", lines)
	}

	if _, err := Build(context.Background(), mockDB, 2); !errors.Is(err, ErrCartEmpty) {
		t.Errorf("expected ErrCartEmpty, got %v", err)
	}
}
