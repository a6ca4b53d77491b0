package commands

import (
	"context"
	"log/slog"

	application "taskboard/contexts/crm/task-comments-service/application"
	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/ports"
)

const moduleName = "crm/task-comments-service"

// RegisterUserCommand is transport-agnostic registration input. Boundary
// validation (email format, password length) has already run.
type RegisterUserCommand struct {
	Email    string
	Password string
	Role     entities.Role
}

type RegisterUserUseCase struct {
	Users  ports.UserRepository
	Hasher ports.PasswordHasher
	IDs    ports.IDGenerator
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u RegisterUserUseCase) Execute(ctx context.Context, cmd RegisterUserCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)
	email := entities.NormalizeEmail(cmd.Email)
	role := cmd.Role
	if role == "" {
		role = entities.RoleUser
	}

	_, exists, err := u.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return entities.User{}, err
	}
	if exists {
		logger.Info("registration rejected",
			"event", "taskboard_register_email_taken",
			"module", moduleName,
			"layer", "application",
		)
		return entities.User{}, domainerrors.ErrEmailTaken
	}

	digest, err := u.Hasher.Hash(cmd.Password)
	if err != nil {
		return entities.User{}, err
	}
	userID, err := u.IDs.NewID(ctx)
	if err != nil {
		return entities.User{}, err
	}
	user, err := entities.NewUser(userID, email, digest, role, u.Clock.Now())
	if err != nil {
		return entities.User{}, err
	}
	if err := u.Users.CreateUser(ctx, user); err != nil {
		logger.Error("register user failed",
			"event", "taskboard_register_user_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	logger.Info("user registered",
		"event", "taskboard_user_registered",
		"module", moduleName,
		"layer", "application",
		"user_id", user.UserID,
		"role", string(user.Role),
	)
	return user, nil
}
