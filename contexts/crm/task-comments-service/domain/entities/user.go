package entities

import (
	"strings"
	"time"

	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
)

// Role is the closed set of capabilities a user can hold.
type Role string

const (
	RoleUser   Role = "user"
	RoleAuthor Role = "author"
)

func ParseRole(value string) (Role, error) {
	switch Role(strings.TrimSpace(value)) {
	case RoleUser:
		return RoleUser, nil
	case RoleAuthor:
		return RoleAuthor, nil
	default:
		return "", domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   "role",
			Message: "role must be one of: user, author",
		})
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAuthor:
		return true
	default:
		return false
	}
}

type User struct {
	UserID           string
	Email            string
	PasswordHash     string
	Role             Role
	LastTaskID       *string
	RefreshTokenHash string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NormalizeEmail trims the address and lowercases its domain. The local part
// keeps its case.
func NormalizeEmail(value string) string {
	value = strings.TrimSpace(value)
	at := strings.LastIndex(value, "@")
	if at < 0 {
		return value
	}
	return value[:at+1] + strings.ToLower(value[at+1:])
}

func NewUser(userID string, email string, passwordHash string, role Role, now time.Time) (User, error) {
	var fields []domainerrors.FieldError
	if strings.TrimSpace(userID) == "" {
		fields = append(fields, domainerrors.FieldError{Field: "id", Message: "id is required"})
	}
	if strings.TrimSpace(email) == "" {
		fields = append(fields, domainerrors.FieldError{Field: "email", Message: "email is required"})
	}
	if passwordHash == "" {
		fields = append(fields, domainerrors.FieldError{Field: "password", Message: "password is required"})
	}
	if !role.Valid() {
		fields = append(fields, domainerrors.FieldError{Field: "role", Message: "role must be one of: user, author"})
	}
	if len(fields) > 0 {
		return User{}, domainerrors.NewValidationError(fields...)
	}
	return User{
		UserID:       userID,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}, nil
}

// Identity returns the authenticated view of the user. Role is taken from the
// stored record, not from token claims.
func (u User) Identity() Identity {
	return Identity{
		UserID: u.UserID,
		Email:  u.Email,
		Role:   u.Role,
	}
}

// Identity is the caller resolved from a verified access token.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}
