package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/database"
)

const ingredientsJSON = `[
  {"name": "flour", "measurement_unit": "g"},
  {"name": "egg", "measurement_unit": "pcs"},
  {"name": " flour ", "measurement_unit": "g"}
]`

func expectTx(mockDB *database.MockStore) {
	mockDB.EXPECT().
		InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(database.Querier) error) error {
			return fn(mockDB)
		})
}

func TestImportIngredients(t *testing.T) {
	want := []database.CopyIngredientsParams{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "egg", MeasurementUnit: "pcs"},
	}

	tests := []struct {
		name    string
		force   bool
		setup   func(*database.MockStore)
		want    int64
		wantErr error
	}{
		{
			name: "empty catalog",
			setup: func(m *database.MockStore) {
				m.EXPECT().GetIngredientCount(gomock.Any()).Return(int64(0), nil)
				expectTx(m)
				m.EXPECT().CopyIngredients(gomock.Any(), want).Return(int64(2), nil)
			},
			want: 2,
		},
		{
			name: "populated catalog is skipped",
			setup: func(m *database.MockStore) {
				m.EXPECT().GetIngredientCount(gomock.Any()).Return(int64(10), nil)
			},
			wantErr: ErrCatalogPopulated,
		},
		{
			name:  "forced reload",
			force: true,
			setup: func(m *database.MockStore) {
				m.EXPECT().GetIngredientCount(gomock.Any()).Return(int64(10), nil)
				expectTx(m)
				gomock.InOrder(
					m.EXPECT().DeleteAllIngredients(gomock.Any()).Return(nil),
					m.EXPECT().CopyIngredients(gomock.Any(), want).Return(int64(2), nil),
				)
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockStore(ctrl)
			tt.setup(mockDB)

			n, err := ImportIngredients(context.Background(), mockDB, strings.NewReader(ingredientsJSON), tt.force)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if n != tt.want {
				t.Errorf("expected %d rows, got %d", tt.want, n)
			}
		})
	}
}

func TestImportIngredientsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockStore(ctrl)

	_, err := ImportIngredients(context.Background(), mockDB, strings.NewReader(`[{"name": "salt"}]`), false)
	if err == nil {
		t.Error("expected error for missing measurement unit")
	}
}

func TestImportTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockStore(ctrl)

	gomock.InOrder(
		mockDB.EXPECT().
			CreateTagIfNotExists(gomock.Any(), database.CreateTagParams{Name: "Breakfast", Color: "#61bdc2", Slug: "breakfast"}).
			Return(int64(1), nil),
		mockDB.EXPECT().
			CreateTagIfNotExists(gomock.Any(), database.CreateTagParams{Name: "Late Snack", Color: "#d1644b", Slug: "late-snack"}).
			Return(int64(0), nil),
	)

	input := `[
	  {"name": "Breakfast", "color": "#61BDC2", "slug": "breakfast"},
	  {"name": "Late Snack", "color": "#d1644b"}
	]`
	n, err := ImportTags(context.Background(), mockDB, strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 created tag, got %d", n)
	}
}

func TestTagParams(t *testing.T) {
	p, err := TagParams(TagRecord{Name: " Dinner ", Color: "#AABBCC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != (database.CreateTagParams{Name: "Dinner", Color: "#aabbcc", Slug: "dinner"}) {
		t.Errorf("unexpected params %+v", p)
	}

	if _, err := TagParams(TagRecord{Name: "???", Color: "#000000"}); !errors.Is(err, ErrNoSlug) {
		t.Errorf("expected ErrNoSlug, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Late Snack":      "late-snack",
		"  Main course! ": "main-course",
		"Основное":        "основное",
		"Top 10 -- Picks": "top-10-picks",
		"!!!":             "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
