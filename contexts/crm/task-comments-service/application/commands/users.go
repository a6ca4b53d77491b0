package commands

import (
	"context"
	"log/slog"

	application "taskboard/contexts/crm/task-comments-service/application"
	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/domain/services"
	"taskboard/contexts/crm/task-comments-service/ports"
)

// UpdateUserCommand applies only the non-nil fields.
type UpdateUserCommand struct {
	Actor    entities.Identity
	UserID   string
	Email    *string
	Password *string
	Role     *entities.Role
}

type UpdateUserUseCase struct {
	Users  ports.UserRepository
	Hasher ports.PasswordHasher
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u UpdateUserUseCase) Execute(ctx context.Context, cmd UpdateUserCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)

	target, err := u.Users.GetUser(ctx, cmd.UserID)
	if err != nil {
		return entities.User{}, err
	}
	if err := services.CanModifyUser(cmd.Actor, target).Err(); err != nil {
		return entities.User{}, err
	}

	changes := ports.UserChanges{UpdatedAt: u.Clock.Now().UTC()}
	if cmd.Email != nil {
		email := entities.NormalizeEmail(*cmd.Email)
		if email == "" {
			return entities.User{}, domainerrors.NewValidationError(domainerrors.FieldError{Field: "email", Message: "email is required"})
		}
		if email != target.Email {
			_, taken, err := u.Users.GetUserByEmail(ctx, email)
			if err != nil {
				return entities.User{}, err
			}
			if taken {
				return entities.User{}, domainerrors.ErrEmailTaken
			}
		}
		changes.Email = &email
	}
	if cmd.Password != nil {
		digest, err := u.Hasher.Hash(*cmd.Password)
		if err != nil {
			return entities.User{}, err
		}
		changes.PasswordHash = &digest
	}
	if cmd.Role != nil {
		if !cmd.Role.Valid() {
			return entities.User{}, domainerrors.NewValidationError(domainerrors.FieldError{Field: "role", Message: "role must be one of: user, author"})
		}
		role := *cmd.Role
		changes.Role = &role
	}

	updated, err := u.Users.UpdateUser(ctx, target.UserID, changes)
	if err != nil {
		logger.Error("update user failed",
			"event", "taskboard_update_user_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", target.UserID,
			"actor_id", cmd.Actor.UserID,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	logger.Info("user updated",
		"event", "taskboard_user_updated",
		"module", moduleName,
		"layer", "application",
		"user_id", updated.UserID,
		"actor_id", cmd.Actor.UserID,
	)
	return updated, nil
}

type DeleteUserCommand struct {
	Actor  entities.Identity
	UserID string
}

// DeleteUserUseCase removes a user together with everything that references it.
type DeleteUserUseCase struct {
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u DeleteUserUseCase) Execute(ctx context.Context, cmd DeleteUserCommand) error {
	logger := application.ResolveLogger(u.Logger)

	target, err := u.Users.GetUser(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if err := services.CanModifyUser(cmd.Actor, target).Err(); err != nil {
		return err
	}
	if err := u.Users.DeleteUserCascade(ctx, target.UserID); err != nil {
		logger.Error("delete user failed",
			"event", "taskboard_delete_user_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", target.UserID,
			"actor_id", cmd.Actor.UserID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("user deleted",
		"event", "taskboard_user_deleted",
		"module", moduleName,
		"layer", "application",
		"user_id", target.UserID,
		"actor_id", cmd.Actor.UserID,
	)
	return nil
}
