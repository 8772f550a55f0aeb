package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Email         string `json:"email"`
	Nome          string `json:"nome"`
	CodigoUnidade int64  `json:"codigo_unidade"`
	jwt.RegisteredClaims
}
