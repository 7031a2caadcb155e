package users

import "github.com/matt-dz/foodgram/internal/user"

type (
	RegisterRequest    = user.RegisterParams
	SetPasswordRequest = user.ChangePasswordParams
)
