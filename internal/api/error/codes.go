package error

import "net/http"

type ErrorCode string

const (
	UnknownError            ErrorCode = "unknown_error"
	InternalServerError     ErrorCode = "internal_server_error"
	BadRequest              ErrorCode = "bad_request"
	ValidationFailed        ErrorCode = "validation_failed"
	InvalidCredentials      ErrorCode = "invalid_credentials"
	InvalidAccessToken      ErrorCode = "invalid_access_token"
	ExpiredAccessToken      ErrorCode = "expired_access_token"
	NotAuthenticated        ErrorCode = "not_authenticated"
	InsufficientPermissions ErrorCode = "insufficient_permissions"
	EmailConflict           ErrorCode = "email_conflict"
	UsernameConflict        ErrorCode = "username_conflict"
	RecipeNotFound          ErrorCode = "recipe_not_found"
	RecipeNotOwned          ErrorCode = "recipe_not_owned"
	IngredientNotFound      ErrorCode = "ingredient_not_found"
	TagNotFound             ErrorCode = "tag_not_found"
	UserNotFound            ErrorCode = "user_not_found"
	AlreadyFavorited        ErrorCode = "already_favorited"
	NotFavorited            ErrorCode = "not_favorited"
	AlreadyInCart           ErrorCode = "already_in_shopping_cart"
	NotInCart               ErrorCode = "not_in_shopping_cart"
	CartEmpty               ErrorCode = "cart_empty"
	AlreadyFollowing        ErrorCode = "already_following"
	NotFollowing            ErrorCode = "not_following"
	SelfFollowNotAllowed    ErrorCode = "self_follow_not_allowed"
	TooManyRequests         ErrorCode = "too_many_requests"
	RouteNotFound           ErrorCode = "route_not_found"
	MethodNotAllowed        ErrorCode = "method_not_allowed"
	TagConflict             ErrorCode = "tag_conflict"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:            0, // No error code - unknown
	InternalServerError:     http.StatusInternalServerError,
	BadRequest:              http.StatusBadRequest,
	ValidationFailed:        http.StatusBadRequest,
	InvalidCredentials:      http.StatusBadRequest,
	InvalidAccessToken:      http.StatusUnauthorized,
	ExpiredAccessToken:      http.StatusUnauthorized,
	NotAuthenticated:        http.StatusUnauthorized,
	InsufficientPermissions: http.StatusForbidden,
	EmailConflict:           http.StatusBadRequest,
	UsernameConflict:        http.StatusBadRequest,
	RecipeNotFound:          http.StatusNotFound,
	RecipeNotOwned:          http.StatusForbidden,
	IngredientNotFound:      http.StatusNotFound,
	TagNotFound:             http.StatusNotFound,
	UserNotFound:            http.StatusNotFound,
	AlreadyFavorited:        http.StatusBadRequest,
	NotFavorited:            http.StatusBadRequest,
	AlreadyInCart:           http.StatusBadRequest,
	NotInCart:               http.StatusBadRequest,
	CartEmpty:               http.StatusNotFound,
	AlreadyFollowing:        http.StatusBadRequest,
	NotFollowing:            http.StatusBadRequest,
	SelfFollowNotAllowed:    http.StatusBadRequest,
	TooManyRequests:         http.StatusTooManyRequests,
	RouteNotFound:           http.StatusNotFound,
	MethodNotAllowed:        http.StatusMethodNotAllowed,
	TagConflict:             http.StatusBadRequest,
}

func (ec ErrorCode) StatusCode() int {
	if status, ok := errorCodeToStatusCode[ec]; ok && status != 0 {
		return status
	}
	return http.StatusInternalServerError
}

func (ec ErrorCode) String() string {
	return string(ec)
}
