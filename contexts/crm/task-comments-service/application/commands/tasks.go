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

type CreateTaskCommand struct {
	Actor       entities.Identity
	Description string
	Comment     string
}

// CreateTaskUseCase persists a task and advances the creator's last-task
// pointer in the same repository call.
type CreateTaskUseCase struct {
	Tasks  ports.TaskRepository
	IDs    ports.IDGenerator
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u CreateTaskUseCase) Execute(ctx context.Context, cmd CreateTaskCommand) (entities.Task, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := services.CanCreateTask(cmd.Actor).Err(); err != nil {
		logger.Info("create task denied",
			"event", "taskboard_create_task_denied",
			"module", moduleName,
			"layer", "application",
			"actor_id", cmd.Actor.UserID,
			"role", string(cmd.Actor.Role),
		)
		return entities.Task{}, err
	}
	taskID, err := u.IDs.NewID(ctx)
	if err != nil {
		return entities.Task{}, err
	}
	task, err := entities.NewTask(taskID, cmd.Actor.UserID, cmd.Description, cmd.Comment, u.Clock.Now())
	if err != nil {
		return entities.Task{}, err
	}
	if err := u.Tasks.CreateTask(ctx, task); err != nil {
		logger.Error("create task failed",
			"event", "taskboard_create_task_failed",
			"module", moduleName,
			"layer", "application",
			"task_id", task.TaskID,
			"actor_id", cmd.Actor.UserID,
			"error", err.Error(),
		)
		return entities.Task{}, err
	}

	logger.Info("task created",
		"event", "taskboard_task_created",
		"module", moduleName,
		"layer", "application",
		"task_id", task.TaskID,
		"actor_id", cmd.Actor.UserID,
	)
	return task, nil
}

type UpdateTaskCommand struct {
	Actor       entities.Identity
	TaskID      string
	Description *string
	Comment     *string
}

type UpdateTaskUseCase struct {
	Tasks  ports.TaskRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u UpdateTaskUseCase) Execute(ctx context.Context, cmd UpdateTaskCommand) (entities.Task, error) {
	logger := application.ResolveLogger(u.Logger)

	task, err := u.Tasks.GetTask(ctx, cmd.TaskID)
	if err != nil {
		return entities.Task{}, err
	}
	if err := services.CanModifyTask(cmd.Actor, task).Err(); err != nil {
		return entities.Task{}, err
	}

	changes := ports.TaskChanges{UpdatedAt: u.Clock.Now().UTC()}
	var fields []domainerrors.FieldError
	if cmd.Description != nil {
		description := strings.TrimSpace(*cmd.Description)
		if description == "" {
			fields = append(fields, domainerrors.FieldError{Field: "description", Message: "description cannot be empty"})
		}
		changes.Description = &description
	}
	if cmd.Comment != nil {
		comment := strings.TrimSpace(*cmd.Comment)
		if comment == "" {
			fields = append(fields, domainerrors.FieldError{Field: "comment", Message: "comment cannot be empty"})
		}
		changes.Comment = &comment
	}
	if len(fields) > 0 {
		return entities.Task{}, domainerrors.NewValidationError(fields...)
	}

	updated, err := u.Tasks.UpdateTask(ctx, task.TaskID, changes)
	if err != nil {
		logger.Error("update task failed",
			"event", "taskboard_update_task_failed",
			"module", moduleName,
			"layer", "application",
			"task_id", task.TaskID,
			"error", err.Error(),
		)
		return entities.Task{}, err
	}

	logger.Info("task updated",
		"event", "taskboard_task_updated",
		"module", moduleName,
		"layer", "application",
		"task_id", updated.TaskID,
		"actor_id", cmd.Actor.UserID,
	)
	return updated, nil
}

type DeleteTaskCommand struct {
	Actor  entities.Identity
	TaskID string
}

type DeleteTaskUseCase struct {
	Tasks  ports.TaskRepository
	Logger *slog.Logger
}

func (u DeleteTaskUseCase) Execute(ctx context.Context, cmd DeleteTaskCommand) error {
	logger := application.ResolveLogger(u.Logger)

	task, err := u.Tasks.GetTask(ctx, cmd.TaskID)
	if err != nil {
		return err
	}
	if err := services.CanModifyTask(cmd.Actor, task).Err(); err != nil {
		logger.Info("delete task denied",
			"event", "taskboard_delete_task_denied",
			"module", moduleName,
			"layer", "application",
			"task_id", task.TaskID,
			"actor_id", cmd.Actor.UserID,
		)
		return err
	}
	if err := u.Tasks.DeleteTaskCascade(ctx, task.TaskID); err != nil {
		logger.Error("delete task failed",
			"event", "taskboard_delete_task_failed",
			"module", moduleName,
			"layer", "application",
			"task_id", task.TaskID,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("task deleted",
		"event", "taskboard_task_deleted",
		"module", moduleName,
		"layer", "application",
		"task_id", task.TaskID,
		"actor_id", cmd.Actor.UserID,
	)
	return nil
}
