package ports

import (
	"context"
	"time"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for new rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// PasswordHasher is the one-way credential store for passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns false on any mismatch, including a malformed digest.
	Verify(password string, digest string) bool
}

// TokenDigester produces comparable digests of refresh tokens so only the
// digest is ever persisted.
type TokenDigester interface {
	Digest(token string) string
	Matches(token string, digest string) bool
}

// TokenCodec issues and verifies signed access/refresh tokens.
type TokenCodec interface {
	IssueAccess(identity entities.Identity) (string, error)
	IssueRefresh(identity entities.Identity) (string, error)
	// Verify fails with ErrInvalidToken on signature, expiry, type or payload problems.
	Verify(token string, expected entities.TokenType) (entities.TokenClaims, error)
}

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// Page is skip/limit pagination shared by every list.
type Page struct {
	Skip  int
	Limit int
}

// Check reports out-of-range skip and limit values. It does not apply
// defaults: callers decide what an unset limit means.
func (p Page) Check() []domainerrors.FieldError {
	var fields []domainerrors.FieldError
	if p.Skip < 0 {
		fields = append(fields, domainerrors.FieldError{Field: "skip", Message: "skip must be greater than or equal to 0"})
	}
	if p.Limit < 1 || p.Limit > MaxPageLimit {
		fields = append(fields, domainerrors.FieldError{Field: "limit", Message: "limit must be between 1 and 1000"})
	}
	return fields
}

// UserChanges carries only the fields a partial update touches.
type UserChanges struct {
	Email        *string
	PasswordHash *string
	Role         *entities.Role
	UpdatedAt    time.Time
}

// UserRepository owns user persistence, including the refresh digest.
type UserRepository interface {
	// CreateUser fails with ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, user entities.User) error
	GetUser(ctx context.Context, userID string) (entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, bool, error)
	ListUsers(ctx context.Context, page Page) ([]entities.User, error)
	UpdateUser(ctx context.Context, userID string, changes UserChanges) (entities.User, error)
	// SetRefreshTokenHash overwrites the stored digest unconditionally.
	SetRefreshTokenHash(ctx context.Context, userID string, digest string, updatedAt time.Time) error
	// RotateRefreshTokenHash swaps previous for next only if previous is still
	// stored. It reports false when another rotation won.
	RotateRefreshTokenHash(ctx context.Context, userID string, previous string, next string, updatedAt time.Time) (bool, error)
	// DeleteUserCascade removes the user's comments, comments on the user's
	// tasks, last-task pointers into those tasks, the tasks and the user, in
	// that order and atomically.
	DeleteUserCascade(ctx context.Context, userID string) error
}

// TaskChanges carries only the fields a partial update touches.
type TaskChanges struct {
	Description *string
	Comment     *string
	UpdatedAt   time.Time
}

// TaskRepository owns task persistence and its cascades.
type TaskRepository interface {
	// CreateTask must atomically persist the task and point the owner's
	// last-task reference at it.
	CreateTask(ctx context.Context, task entities.Task) error
	GetTask(ctx context.Context, taskID string) (entities.Task, error)
	ListTasks(ctx context.Context, page Page) ([]entities.Task, error)
	UpdateTask(ctx context.Context, taskID string, changes TaskChanges) (entities.Task, error)
	// DeleteTaskCascade removes the task's comments, clears last-task pointers
	// to it and then deletes the task, atomically.
	DeleteTaskCascade(ctx context.Context, taskID string) error
}

// CommentListFilter narrows comment listing to one task when TaskID is set.
type CommentListFilter struct {
	TaskID string
	Page   Page
}

type CommentChanges struct {
	Text      *string
	UpdatedAt time.Time
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment entities.Comment) error
	GetComment(ctx context.Context, commentID string) (entities.Comment, error)
	ListComments(ctx context.Context, filter CommentListFilter) ([]entities.Comment, error)
	UpdateComment(ctx context.Context, commentID string, changes CommentChanges) (entities.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}
