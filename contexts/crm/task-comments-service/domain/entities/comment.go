package entities

import (
	"strings"
	"time"

	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
)

type Comment struct {
	CommentID string
	TaskID    string
	UserID    string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewComment(commentID string, taskID string, ownerID string, text string, now time.Time) (Comment, error) {
	text = strings.TrimSpace(text)

	var fields []domainerrors.FieldError
	if strings.TrimSpace(commentID) == "" || strings.TrimSpace(ownerID) == "" {
		fields = append(fields, domainerrors.FieldError{Field: "id", Message: "comment and owner ids are required"})
	}
	if strings.TrimSpace(taskID) == "" {
		fields = append(fields, domainerrors.FieldError{Field: "task_id", Message: "task_id is required"})
	}
	if text == "" {
		fields = append(fields, domainerrors.FieldError{Field: "text", Message: "comment text cannot be empty"})
	}
	if len(fields) > 0 {
		return Comment{}, domainerrors.NewValidationError(fields...)
	}

	return Comment{
		CommentID: commentID,
		TaskID:    taskID,
		UserID:    ownerID,
		Text:      text,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

func (c Comment) OwnedBy(userID string) bool {
	return c.UserID != "" && c.UserID == userID
}
