package commands

import (
	"context"
	"log/slog"
	"strings"

	application "taskboard/contexts/crm/task-comments-service/application"
	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/domain/services"
	"taskboard/contexts/crm/task-comments-service/ports"
)

type CreateCommentCommand struct {
	Actor  entities.Identity
	TaskID string
	Text   string
}

// CreateCommentUseCase checks the role rule before task existence, so a
// user-role caller is refused even for unknown tasks.
type CreateCommentUseCase struct {
	Comments ports.CommentRepository
	Tasks    ports.TaskRepository
	IDs      ports.IDGenerator
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u CreateCommentUseCase) Execute(ctx context.Context, cmd CreateCommentCommand) (entities.Comment, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := services.CanCreateComment(cmd.Actor).Err(); err != nil {
		logger.Info("create comment denied",
			"event", "taskboard_create_comment_denied",
			"module", moduleName,
			"layer", "application",
			"actor_id", cmd.Actor.UserID,
			"role", string(cmd.Actor.Role),
		)
		return entities.Comment{}, err
	}
	task, err := u.Tasks.GetTask(ctx, cmd.TaskID)
	if err != nil {
		return entities.Comment{}, err
	}
	commentID, err := u.IDs.NewID(ctx)
	if err != nil {
		return entities.Comment{}, err
	}
	comment, err := entities.NewComment(commentID, task.TaskID, cmd.Actor.UserID, cmd.Text, u.Clock.Now())
	if err != nil {
		return entities.Comment{}, err
	}
	if err := u.Comments.CreateComment(ctx, comment); err != nil {
		logger.Error("create comment failed",
			"event", "taskboard_create_comment_failed",
			"module", moduleName,
			"layer", "application",
			"comment_id", comment.CommentID,
			"task_id", task.TaskID,
			"error", err.Error(),
		)
		return entities.Comment{}, err
	}

	logger.Info("comment created",
		"event", "taskboard_comment_created",
		"module", moduleName,
		"layer", "application",
		"comment_id", comment.CommentID,
		"task_id", task.TaskID,
		"actor_id", cmd.Actor.UserID,
	)
	return comment, nil
}

type UpdateCommentCommand struct {
	Actor     entities.Identity
	CommentID string
	Text      *string
}

type UpdateCommentUseCase struct {
	Comments ports.CommentRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u UpdateCommentUseCase) Execute(ctx context.Context, cmd UpdateCommentCommand) (entities.Comment, error) {
	logger := application.ResolveLogger(u.Logger)

	comment, err := u.Comments.GetComment(ctx, cmd.CommentID)
	if err != nil {
		return entities.Comment{}, err
	}
	if err := services.CanModifyComment(cmd.Actor, comment).Err(); err != nil {
		return entities.Comment{}, err
	}

	changes := ports.CommentChanges{UpdatedAt: u.Clock.Now().UTC()}
	if cmd.Text != nil {
		text := strings.TrimSpace(*cmd.Text)
		if text == "" {
			return entities.Comment{}, domainerrors.NewValidationError(domainerrors.FieldError{Field: "text", Message: "comment text cannot be empty"})
		}
		changes.Text = &text
	}

	updated, err := u.Comments.UpdateComment(ctx, comment.CommentID, changes)
	if err != nil {
		logger.Error("update comment failed",
			"event", "taskboard_update_comment_failed",
			"module", moduleName,
			"layer", "application",
			"comment_id", comment.CommentID,
			"error", err.Error(),
		)
		return entities.Comment{}, err
	}

	logger.Info("comment updated",
		"event", "taskboard_comment_updated",
		"module", moduleName,
		"layer", "application",
		"comment_id", updated.CommentID,
		"actor_id", cmd.Actor.UserID,
	)
	return updated, nil
}

type DeleteCommentCommand struct {
	Actor     entities.Identity
	CommentID string
}

type DeleteCommentUseCase struct {
	Comments ports.CommentRepository
	Logger   *slog.Logger
}

func (u DeleteCommentUseCase) Execute(ctx context.Context, cmd DeleteCommentCommand) error {
	logger := application.ResolveLogger(u.Logger)

	comment, err := u.Comments.GetComment(ctx, cmd.CommentID)
	if err != nil {
		return err
	}
	if err := services.CanModifyComment(cmd.Actor, comment).Err(); err != nil {
		return err
	}
	if err := u.Comments.DeleteComment(ctx, comment.CommentID); err != nil {
		logger.Error("delete comment failed",
			"event", "taskboard_delete_comment_failed",
			"module", moduleName,
			"layer", "application",
			"comment_id", comment.CommentID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("comment deleted",
		"event", "taskboard_comment_deleted",
		"module", moduleName,
		"layer", "application",
		"comment_id", comment.CommentID,
		"actor_id", cmd.Actor.UserID,
	)
	return nil
}
