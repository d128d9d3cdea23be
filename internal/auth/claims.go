package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the subset of a Supabase access token this service reads.
// The recruiter's user id is the standard "sub" claim.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}
