package http

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/ports"
)

const (
	PasswordMinLength = 6
	PasswordMaxLength = 100
	TextMaxLength     = 1000
)

// fieldErrors accumulates boundary failures so a response reports every bad
// field at once.
type fieldErrors []domainerrors.FieldError

func (f *fieldErrors) add(field string, message string) {
	*f = append(*f, domainerrors.FieldError{Field: field, Message: message})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return domainerrors.NewValidationError(f...)
}

func (r RegisterRequest) Validate() error {
	var errs fieldErrors
	checkEmail(&errs, "email", r.Email)
	checkPassword(&errs, "password", r.Password)
	if r.Role != "" {
		checkRole(&errs, "role", r.Role)
	}
	return errs.err()
}

func (r LoginRequest) Validate() error {
	var errs fieldErrors
	checkEmail(&errs, "email", r.Email)
	if r.Password == "" {
		errs.add("password", "password is required")
	}
	return errs.err()
}

func (r RefreshRequest) Validate() error {
	var errs fieldErrors
	if r.RefreshToken == nil {
		errs.add("refresh_token", "refresh_token is required")
	}
	return errs.err()
}

func (r UpdateUserRequest) Validate() error {
	var errs fieldErrors
	if r.Email != nil {
		checkEmail(&errs, "email", *r.Email)
	}
	if r.Password != nil {
		checkPassword(&errs, "password", *r.Password)
	}
	if r.Role != nil {
		checkRole(&errs, "role", *r.Role)
	}
	return errs.err()
}

func (r CreateTaskRequest) Validate() error {
	var errs fieldErrors
	checkText(&errs, "description", r.Description)
	checkText(&errs, "comment", r.Comment)
	return errs.err()
}

func (r UpdateTaskRequest) Validate() error {
	var errs fieldErrors
	if r.Description != nil {
		checkText(&errs, "description", *r.Description)
	}
	if r.Comment != nil {
		checkText(&errs, "comment", *r.Comment)
	}
	return errs.err()
}

func (r CreateCommentRequest) Validate() error {
	var errs fieldErrors
	checkUUID(&errs, "task_id", r.TaskID)
	checkText(&errs, "text", r.Text)
	return errs.err()
}

func (r UpdateCommentRequest) Validate() error {
	var errs fieldErrors
	if r.Text != nil {
		checkText(&errs, "text", *r.Text)
	}
	return errs.err()
}

// ParsePage turns raw skip/limit query values into offsets. Absent values take
// the defaults; an explicit limit=0 is rejected.
func (r ListRequest) ParsePage() (skip int, limit int, err error) {
	var errs fieldErrors
	page := ports.Page{Limit: ports.DefaultPageLimit}
	if raw := strings.TrimSpace(r.Skip); raw != "" {
		value, convErr := strconv.Atoi(raw)
		if convErr != nil {
			errs.add("skip", "skip must be an integer")
		} else {
			page.Skip = value
		}
	}
	if raw := strings.TrimSpace(r.Limit); raw != "" {
		value, convErr := strconv.Atoi(raw)
		if convErr != nil {
			errs.add("limit", "limit must be an integer")
		} else {
			page.Limit = value
		}
	}
	for _, field := range page.Check() {
		errs = append(errs, field)
	}
	if len(errs) > 0 {
		return 0, 0, errs.err()
	}
	return page.Skip, page.Limit, nil
}

func (r ListCommentsRequest) Validate() error {
	var errs fieldErrors
	if strings.TrimSpace(r.TaskID) != "" {
		checkUUID(&errs, "task_id", r.TaskID)
	}
	return errs.err()
}

// ParseID validates a UUID path or query value and returns its canonical form.
func ParseID(field string, value string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", domainerrors.NewValidationError(domainerrors.FieldError{Field: field, Message: field + " must be a valid UUID"})
	}
	return id.String(), nil
}

func checkEmail(errs *fieldErrors, field string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		errs.add(field, "email is required")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		errs.add(field, "value is not a valid email address")
		return
	}
	at := strings.LastIndex(value, "@")
	domain := value[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		errs.add(field, "value is not a valid email address")
	}
}

func checkPassword(errs *fieldErrors, field string, value string) {
	length := utf8.RuneCountInString(value)
	if length < PasswordMinLength {
		errs.add(field, "password must be at least 6 characters long")
		return
	}
	if length > PasswordMaxLength {
		errs.add(field, "password must be at most 100 characters long")
	}
}

func checkRole(errs *fieldErrors, field string, value string) {
	if _, err := entities.ParseRole(value); err != nil {
		errs.add(field, "role must be one of: user, author")
	}
}

func checkText(errs *fieldErrors, field string, value string) {
	if strings.TrimSpace(value) == "" {
		errs.add(field, field+" cannot be empty")
		return
	}
	if utf8.RuneCountInString(value) > TextMaxLength {
		errs.add(field, field+" must be at most 1000 characters long")
	}
}

func checkUUID(errs *fieldErrors, field string, value string) {
	if _, err := uuid.Parse(strings.TrimSpace(value)); err != nil {
		errs.add(field, field+" must be a valid UUID")
	}
}
