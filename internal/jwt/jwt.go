// Package jwt provides functions for generating and validating JWTs
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTDuration = 7 * 24 * time.Hour
)

var ErrInvalidSubject = errors.New("token subject is not a user id")

type JWTParams struct {
	Role   string
	UserID int64
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateJWT(params JWTParams, secret []byte, version string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: params.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(params.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(JWTDuration)),
		},
	})
	token.Header["kid"] = version

	signedKey, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signedKey, nil
}

// ValidateJWT verifies the signature, key version and expiry of rawToken
// and returns the identity it carries.
func ValidateJWT(rawToken, version string, secret []byte) (JWTParams, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		kidVal, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing/invalid kid value")
		}

		if kidVal != version {
			return nil, fmt.Errorf("verifying KID value, value=%q", kidVal)
		}

		return secret, nil
	}

	var c claims
	_, err := jwt.ParseWithClaims(rawToken, &c, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return JWTParams{}, err
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return JWTParams{}, errors.Join(ErrInvalidSubject, err)
	}

	return JWTParams{Role: c.Role, UserID: userID}, nil
}
