package validation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
)

type item struct {
	ID     int64 `json:"id" validate:"gt=0"`
	Amount int32 `json:"amount" validate:"gte=1"`
}

type payload struct {
	Name  string `json:"name" validate:"required,max=5"`
	Items []item `json:"items" validate:"required,min=1,unique=ID,dive"`
}

func TestFromValidator(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		in   payload
		want map[string][]string
	}{
		{
			name: "valid",
			in:   payload{Name: "soup", Items: []item{{ID: 1, Amount: 2}}},
		},
		{
			name: "missing fields",
			in:   payload{},
			want: map[string][]string{
				"name":  {"this field is required"},
				"items": {"this field is required"},
			},
		},
		{
			name: "nested amount",
			in:   payload{Name: "soup", Items: []item{{ID: 1, Amount: 0}}},
			want: map[string][]string{
				"items": {"ensure this value is greater than or equal to 1"},
			},
		},
		{
			name: "duplicates",
			in:   payload{Name: "soup", Items: []item{{ID: 1, Amount: 1}, {ID: 1, Amount: 2}}},
			want: map[string][]string{
				"items": {"duplicate values are not allowed"},
			},
		},
		{
			name: "too long",
			in:   payload{Name: "tomato soup", Items: []item{{ID: 1, Amount: 1}}},
			want: map[string][]string{
				"name": {"ensure this field has no more than 5 characters"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromValidator(v.Struct(tt.in))
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if !reflect.DeepEqual(verr.Fields, tt.want) {
				t.Errorf("fields = %v, want %v", verr.Fields, tt.want)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	e := New()
	if e.OrNil() != nil {
		t.Error("empty error should be nil")
	}
	e.Add("b", "two")
	e.Add("a", "one")
	if e.OrNil() == nil {
		t.Fatal("expected non-nil error")
	}
	if got := e.Error(); got != "validation failed: a: one; b: two" {
		t.Errorf("Error() = %q", got)
	}

	other := errors.New("plain")
	if FromValidator(other) != other {
		t.Error("non validator errors should pass through")
	}
}

func TestMustRegister(t *testing.T) {
	v := NewValidator()
	MustRegister(v, "even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	})
	if err := v.Var(3, "even"); err == nil {
		t.Error("expected 3 to fail the custom tag")
	}
	if err := v.Var(4, "even"); err != nil {
		t.Errorf("expected 4 to pass, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an empty tag")
		}
	}()
	MustRegister(v, "", func(validator.FieldLevel) bool { return true })
}
