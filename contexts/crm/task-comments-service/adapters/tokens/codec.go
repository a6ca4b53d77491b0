package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
)

const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Config defines how tokens are signed and how long they live.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// Codec issues and verifies HS256 tokens.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// claims is the wire shape; sub, exp, iat and jti come from RegisteredClaims.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"type"`
}

func NewCodec(cfg Config) (Codec, error) {
	if len(cfg.Secret) == 0 {
		return Codec{}, errors.New("token signing secret is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return Codec{
		secret:     append([]byte(nil), cfg.Secret...),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}, nil
}

func (c Codec) IssueAccess(identity entities.Identity) (string, error) {
	return c.issue(identity, entities.TokenTypeAccess, c.accessTTL)
}

func (c Codec) IssueRefresh(identity entities.Identity) (string, error) {
	return c.issue(identity, entities.TokenTypeRefresh, c.refreshTTL)
}

func (c Codec) issue(identity entities.Identity, tokenType entities.TokenType, ttl time.Duration) (string, error) {
	if strings.TrimSpace(identity.UserID) == "" {
		return "", errors.New("token subject is required")
	}
	now := c.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: identity.Email,
		Role:  string(identity.Role),
		Type:  string(tokenType),
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, expiry, type and payload shape. Every
// failure wraps ErrInvalidToken; the wrapped detail is for logs only.
func (c Codec) Verify(token string, expected entities.TokenType) (entities.TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entities.TokenClaims{}, invalid("token is empty")
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return entities.TokenClaims{}, mapJWTError(err)
	}

	if entities.TokenType(parsed.Type) != expected {
		return entities.TokenClaims{}, invalid("token type mismatch")
	}
	if _, err := uuid.Parse(parsed.Subject); err != nil {
		return entities.TokenClaims{}, invalid("token subject is not a uuid")
	}
	role := entities.Role(parsed.Role)
	if !role.Valid() {
		return entities.TokenClaims{}, invalid("token role is unknown")
	}

	out := entities.TokenClaims{
		TokenID:   parsed.ID,
		UserID:    parsed.Subject,
		Email:     parsed.Email,
		Role:      role,
		Type:      expected,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return out, nil
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", domainerrors.ErrInvalidToken, reason)
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return invalid("token is expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return invalid("token signature is invalid")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return invalid("token algorithm is not accepted")
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return invalid("token is missing a required claim")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return invalid("token is malformed")
	default:
		return invalid("token is invalid")
	}
}
