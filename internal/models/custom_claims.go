package models

import "github.com/golang-jwt/jwt/v5"

// APIClaims represents the claims carried by a stand-in backend bearer token
type APIClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}
