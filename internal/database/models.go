package database

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (e *Role) Scan(src any) error {
	switch s := src.(type) {
	case []byte:
		*e = Role(s)
	case string:
		*e = Role(s)
	default:
		return fmt.Errorf("unsupported scan type for Role: %T", src)
	}
	return nil
}

type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	CreatedAt    pgtype.Timestamptz
}

type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}

type Tag struct {
	ID    int64
	Name  string
	Color string
	Slug  string
}

type ShortRecipe struct {
	ID          int64
	Name        string
	Image       string
	CookingTime int32
}
