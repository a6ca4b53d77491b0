package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "taskboard/contexts/crm/task-comments-service/application"
	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/ports"
)

const moduleName = "crm/task-comments-service"

// AuthenticateUseCase resolves a bearer access token to the caller. The role
// returned is the one currently stored, not the one embedded in the token.
type AuthenticateUseCase struct {
	Users  ports.UserRepository
	Tokens ports.TokenCodec
	Logger *slog.Logger
}

func (u AuthenticateUseCase) Execute(ctx context.Context, token string) (entities.Identity, error) {
	logger := application.ResolveLogger(u.Logger)

	token = strings.TrimSpace(token)
	if token == "" {
		return entities.Identity{}, domainerrors.ErrInvalidToken
	}
	claims, err := u.Tokens.Verify(token, entities.TokenTypeAccess)
	if err != nil {
		return entities.Identity{}, domainerrors.ErrInvalidToken
	}
	user, err := u.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			logger.Debug("token subject no longer exists",
				"event", "taskboard_authenticate_unknown_subject",
				"module", moduleName,
				"layer", "application",
				"user_id", claims.UserID,
			)
			return entities.Identity{}, domainerrors.ErrInvalidToken
		}
		return entities.Identity{}, err
	}
	return user.Identity(), nil
}

type GetUserUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u GetUserUseCase) Execute(ctx context.Context, userID string) (entities.User, error) {
	return u.Users.GetUser(ctx, strings.TrimSpace(userID))
}

type ListUsersUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u ListUsersUseCase) Execute(ctx context.Context, page ports.Page) ([]entities.User, error) {
	page, err := NormalizePage(page)
	if err != nil {
		return nil, err
	}
	return u.Users.ListUsers(ctx, page)
}

type GetTaskUseCase struct {
	Tasks  ports.TaskRepository
	Logger *slog.Logger
}

func (u GetTaskUseCase) Execute(ctx context.Context, taskID string) (entities.Task, error) {
	return u.Tasks.GetTask(ctx, strings.TrimSpace(taskID))
}

type ListTasksUseCase struct {
	Tasks  ports.TaskRepository
	Logger *slog.Logger
}

func (u ListTasksUseCase) Execute(ctx context.Context, page ports.Page) ([]entities.Task, error) {
	page, err := NormalizePage(page)
	if err != nil {
		return nil, err
	}
	return u.Tasks.ListTasks(ctx, page)
}

type GetCommentUseCase struct {
	Comments ports.CommentRepository
	Logger   *slog.Logger
}

func (u GetCommentUseCase) Execute(ctx context.Context, commentID string) (entities.Comment, error) {
	return u.Comments.GetComment(ctx, strings.TrimSpace(commentID))
}

// ListCommentsUseCase lists all comments, or those of one task when the
// filter names it. An unknown task yields an empty list.
type ListCommentsUseCase struct {
	Comments ports.CommentRepository
	Logger   *slog.Logger
}

func (u ListCommentsUseCase) Execute(ctx context.Context, filter ports.CommentListFilter) ([]entities.Comment, error) {
	logger := application.ResolveLogger(u.Logger)
	page, err := NormalizePage(filter.Page)
	if err != nil {
		return nil, err
	}
	filter.Page = page
	filter.TaskID = strings.TrimSpace(filter.TaskID)

	comments, err := u.Comments.ListComments(ctx, filter)
	if err != nil {
		return nil, err
	}
	logger.Debug("comments listed",
		"event", "taskboard_comments_listed",
		"module", moduleName,
		"layer", "application",
		"task_id", filter.TaskID,
		"count", len(comments),
	)
	return comments, nil
}

// NormalizePage treats a zero limit as unset and applies ports.DefaultPageLimit,
// then rejects out-of-range values.
func NormalizePage(page ports.Page) (ports.Page, error) {
	if page.Limit == 0 {
		page.Limit = ports.DefaultPageLimit
	}
	if fields := page.Check(); len(fields) > 0 {
		return ports.Page{}, domainerrors.NewValidationError(fields...)
	}
	return page, nil
}
