package password

import (
	"errors"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		attributes []string
		want       []error
	}{
		{
			name:     "strong password",
			password: "Gr33n-Tomato-Soup!",
		},
		{
			name:     "too short",
			password: "a1",
			want:     []error{ErrTooShort, ErrTooWeak},
		},
		{
			name:     "no digit",
			password: "correct-horse-battery-staple",
			want:     []error{ErrNoDigit},
		},
		{
			name:       "contains username",
			password:   "chef-julia-1987-kitchen",
			attributes: []string{"Julia", "julia.child@example.com"},
			want:       []error{ErrTooSimilar},
		},
		{
			name:       "short attributes ignored",
			password:   "Gr33n-Tomato-Soup!",
			attributes: []string{"gr", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.password, tt.attributes...)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d problems, got %d: %v", len(tt.want), len(got), got)
			}
			for i, want := range tt.want {
				if !errors.Is(got[i], want) {
					t.Errorf("problem %d: expected %v, got %v", i, want, got[i])
				}
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Gr33n-Tomato-Soup!"); err != nil {
		t.Errorf("expected strong password to pass, got %v", err)
	}
	if err := ValidatePassword("short"); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}
