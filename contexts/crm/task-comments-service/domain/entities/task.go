package entities

import (
	"strings"
	"time"

	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
)

type Task struct {
	TaskID      string
	UserID      string
	Description string
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewTask(taskID string, ownerID string, description string, comment string, now time.Time) (Task, error) {
	description = strings.TrimSpace(description)
	comment = strings.TrimSpace(comment)

	var fields []domainerrors.FieldError
	if strings.TrimSpace(taskID) == "" || strings.TrimSpace(ownerID) == "" {
		fields = append(fields, domainerrors.FieldError{Field: "id", Message: "task and owner ids are required"})
	}
	if description == "" {
		fields = append(fields, domainerrors.FieldError{Field: "description", Message: "description cannot be empty"})
	}
	if comment == "" {
		fields = append(fields, domainerrors.FieldError{Field: "comment", Message: "comment cannot be empty"})
	}
	if len(fields) > 0 {
		return Task{}, domainerrors.NewValidationError(fields...)
	}

	return Task{
		TaskID:      taskID,
		UserID:      ownerID,
		Description: description,
		Comment:     comment,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// OwnedBy reports whether userID created the task.
func (t Task) OwnedBy(userID string) bool {
	return t.UserID != "" && t.UserID == userID
}
