// Package user registers accounts, checks credentials and builds profiles.
package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/follow"
	"github.com/matt-dz/foodgram/internal/password"
	"github.com/matt-dz/foodgram/internal/validation"
	"github.com/matt-dz/foodgram/internal/viewer"
)

const (
	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
)

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = func() *validator.Validate {
	v := validation.NewValidator()
	validation.MustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}()

type RegisterParams struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required"`
}

// Profile is a user as seen by a viewer.
type Profile struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	IsSubscribed bool
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks p, including password strength.
func Validate(p RegisterParams) error {
	verr := validation.New()
	var fieldErrs *validation.Error
	if err := validation.FromValidator(validate.Struct(p)); errors.As(err, &fieldErrs) {
		verr = fieldErrs
	} else if err != nil {
		return err
	}
	if p.Password != "" {
		for _, problem := range password.Check(p.Password, p.Username, p.Email) {
			verr.Add("password", problem.Error())
		}
	}
	return verr.OrNil()
}

// Register creates a regular user and returns its id.
func Register(ctx context.Context, db database.Querier, p RegisterParams) (int64, error) {
	p.Email = normalizeEmail(p.Email)
	p.Username = strings.TrimSpace(p.Username)
	if err := Validate(p); err != nil {
		return 0, err
	}

	hash, err := argon2id.Hash(p.Password)
	if err != nil {
		return 0, fmt.Errorf("hashing password: %w", err)
	}

	id, err := db.CreateUser(ctx, database.CreateUserParams{
		Email:        p.Email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: hash,
	})
	if database.IsUniqueViolation(err) {
		switch database.ConstraintName(err) {
		case emailConstraint:
			return 0, ErrEmailTaken
		case usernameConstraint:
			return 0, ErrUsernameTaken
		}
	}
	if err != nil {
		return 0, fmt.Errorf("creating user: %w", err)
	}
	return id, nil
}

// Authenticate returns the user owning email when password matches.
func Authenticate(ctx context.Context, db database.Querier, email, pw string) (database.User, error) {
	u, err := db.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return database.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return database.User{}, fmt.Errorf("getting user: %w", err)
	}

	ok, err := argon2id.Verify(pw, u.PasswordHash)
	if err != nil {
		return database.User{}, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return database.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetProfile returns user id annotated with whether v follows them.
func GetProfile(ctx context.Context, db database.Querier, v viewer.Viewer, id int64) (Profile, error) {
	u, err := db.GetUser(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("getting user: %w", err)
	}

	subscribed, err := follow.IsFollowing(ctx, db, v, id)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}, nil
}

// ListProfiles returns a page of users annotated for v with a single
// follow lookup for the whole page.
func ListProfiles(ctx context.Context, db database.Querier, v viewer.Viewer, limit, offset int32) ([]Profile, error) {
	users, err := db.ListUsers(ctx, database.ListUsersParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	followed := map[int64]bool{}
	if !v.IsAnonymous() && len(users) > 0 {
		ids := make([]int64, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		among, err := db.ListFollowedAmong(ctx, database.ListFollowedAmongParams{UserID: v.ID, FollowingIDs: ids})
		if err != nil {
			return nil, fmt.Errorf("listing follows: %w", err)
		}
		for _, id := range among {
			followed[id] = true
		}
	}

	profiles := make([]Profile, len(users))
	for i, u := range users {
		profiles[i] = Profile{
			ID:           u.ID,
			Email:        u.Email,
			Username:     u.Username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			IsSubscribed: followed[u.ID],
		}
	}
	return profiles, nil
}

type ChangePasswordParams struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ChangePassword replaces the password of userID after checking the
// current one.
func ChangePassword(ctx context.Context, db database.Querier, userID int64, p ChangePasswordParams) error {
	if err := validation.FromValidator(validate.Struct(p)); err != nil {
		return err
	}

	u, err := db.GetUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("getting user: %w", err)
	}

	ok, err := argon2id.Verify(p.CurrentPassword, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return validation.Field("current_password", "current password is incorrect")
	}

	verr := validation.New()
	for _, problem := range password.Check(p.NewPassword, u.Username, u.Email) {
		verr.Add("new_password", problem.Error())
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	hash, err := argon2id.Hash(p.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := db.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{ID: userID, PasswordHash: hash}); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}
