package entities

import "time"

// TokenType tags a signed token with the flow it may be used for.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// BearerTokenType is the token_type reported alongside issued pairs.
const BearerTokenType = "bearer"

// TokenClaims is the verified content of a signed token.
type TokenClaims struct {
	TokenID   string
	UserID    string
	Email     string
	Role      Role
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}
