package auth

import (
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email       string
	Name        string
	Role        enums.UserRole
	CompanyName *string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	Email       string         `json:"email"`
	Name        string         `json:"name,omitempty"`
	Role        enums.UserRole `json:"role"`
	CompanyName *string        `json:"company_name,omitempty"`
	jwt.RegisteredClaims
}
