package user

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/role"
	"github.com/matt-dz/foodgram/internal/validation"
	"github.com/matt-dz/foodgram/internal/viewer"
)

const strongPassword = "Tomato-Basil-2024!"

func validRegister() RegisterParams {
	return RegisterParams{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  strongPassword,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*RegisterParams)
		wantField string
	}{
		{name: "bad email", mutate: func(p *RegisterParams) { p.Email = "not-an-email" }, wantField: "email"},
		{name: "username with spaces", mutate: func(p *RegisterParams) { p.Username = "two words" }, wantField: "username"},
		{name: "missing first name", mutate: func(p *RegisterParams) { p.FirstName = "" }, wantField: "first_name"},
		{name: "short password", mutate: func(p *RegisterParams) { p.Password = "ab1" }, wantField: "password"},
		{name: "password contains username", mutate: func(p *RegisterParams) { p.Password = "Cook-Rules-99!" }, wantField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validRegister()
			tt.mutate(&p)
			var verr *validation.Error
			if err := Validate(p); !errors.As(err, &verr) {
				t.Fatalf("expected *validation.Error, got %v", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, verr.Fields)
			}
		})
	}

	if err := Validate(validRegister()); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "created"},
		{
			name:    "email taken",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			wantErr: ErrEmailTaken,
		},
		{
			name:    "username taken",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
			wantErr: ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockStore(ctrl)
			mockDB.EXPECT().
				CreateUser(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, p database.CreateUserParams) (int64, error) {
					if p.Email != "cook@example.com" {
						t.Errorf("expected normalized email, got %q", p.Email)
					}
					if p.PasswordHash == "" || p.PasswordHash == strongPassword {
						t.Errorf("password must be hashed, got %q", p.PasswordHash)
					}
					return int64(7), tt.dbErr
				})

			p := validRegister()
			p.Email = "  Cook@Example.com "
			id, err := Register(context.Background(), mockDB, p)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || id != 7 {
				t.Errorf("expected id 7, got %d, %v", id, err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := argon2id.EncodeHash(strongPassword, argon2id.ArgonParams{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	stored := database.User{ID: 3, Email: "cook@example.com", PasswordHash: hash, Role: database.RoleUser}

	tests := []struct {
		name     string
		password string
		user     database.User
		dbErr    error
		wantErr  error
	}{
		{name: "valid", password: strongPassword, user: stored},
		{name: "wrong password", password: "Other-Pass-1", user: stored, wantErr: ErrInvalidCredentials},
		{name: "unknown email", password: strongPassword, dbErr: pgx.ErrNoRows, wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockStore(ctrl)
			mockDB.EXPECT().GetUserByEmail(gomock.Any(), "cook@example.com").Return(tt.user, tt.dbErr)

			u, err := Authenticate(context.Background(), mockDB, "COOK@example.com", tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && u.ID != 3 {
				t.Errorf("expected user 3, got %d", u.ID)
			}
		})
	}
}

func TestGetProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockStore(ctrl)

	mockDB.EXPECT().GetUser(gomock.Any(), int64(2)).Return(database.User{ID: 2, Username: "baker"}, nil).Times(2)
	mockDB.EXPECT().
		IsFollowing(gomock.Any(), database.FollowParams{UserID: 1, FollowingID: 2}).
		Return(true, nil)
	mockDB.EXPECT().GetUser(gomock.Any(), int64(404)).Return(database.User{}, pgx.ErrNoRows)

	p, err := GetProfile(context.Background(), mockDB, viewer.Authenticated(1, role.RoleUser), 2)
	if err != nil || !p.IsSubscribed || p.Username != "baker" {
		t.Errorf("unexpected profile %+v, %v", p, err)
	}

	p, err = GetProfile(context.Background(), mockDB, viewer.Anonymous(), 2)
	if err != nil || p.IsSubscribed {
		t.Errorf("anonymous viewer should not be subscribed: %+v, %v", p, err)
	}

	if _, err := GetProfile(context.Background(), mockDB, viewer.Anonymous(), 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListProfiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockStore(ctrl)

	users := []database.User{{ID: 2, Username: "baker"}, {ID: 3, Username: "cook"}}
	mockDB.EXPECT().ListUsers(gomock.Any(), database.ListUsersParams{Limit: 6, Offset: 0}).Return(users, nil).Times(2)
	mockDB.EXPECT().
		ListFollowedAmong(gomock.Any(), database.ListFollowedAmongParams{UserID: 1, FollowingIDs: []int64{2, 3}}).
		Return([]int64{3}, nil).
		Times(1)

	profiles, err := ListProfiles(context.Background(), mockDB, viewer.Authenticated(1, role.RoleUser), 6, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles[0].IsSubscribed || !profiles[1].IsSubscribed {
		t.Errorf("unexpected subscription flags %+v", profiles)
	}

	profiles, err = ListProfiles(context.Background(), mockDB, viewer.Anonymous(), 6, 0)
	if err != nil || profiles[1].IsSubscribed {
		t.Errorf("anonymous viewer follows nobody: %+v, %v", profiles, err)
	}
}

func TestChangePassword(t *testing.T) {
	hash, err := argon2id.EncodeHash(strongPassword, argon2id.ArgonParams{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	stored := database.User{ID: 3, Username: "cook", Email: "cook@example.com", PasswordHash: hash}

	tests := []struct {
		name      string
		params    ChangePasswordParams
		update    bool
		wantField string
	}{
		{
			name:   "changed",
			params: ChangePasswordParams{CurrentPassword: strongPassword, NewPassword: "Lemon-Thyme-7781?"},
			update: true,
		},
		{
			name:      "wrong current password",
			params:    ChangePasswordParams{CurrentPassword: "nope", NewPassword: "Lemon-Thyme-7781?"},
			wantField: "current_password",
		},
		{
			name:      "weak new password",
			params:    ChangePasswordParams{CurrentPassword: strongPassword, NewPassword: "short1"},
			wantField: "new_password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := database.NewMockStore(ctrl)
			mockDB.EXPECT().GetUser(gomock.Any(), int64(3)).Return(stored, nil)
			if tt.update {
				mockDB.EXPECT().UpdateUserPassword(gomock.Any(), gomock.Any()).Return(nil)
			}

			err := ChangePassword(context.Background(), mockDB, 3, tt.params)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *validation.Error, got %v", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, verr.Fields)
			}
		})
	}
}
