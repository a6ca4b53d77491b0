package entities

import (
	"errors"
	"testing"
	"time"

	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
)

func TestParseRole(t *testing.T) {
	if role, err := ParseRole("author"); err != nil || role != RoleAuthor {
		t.Fatalf("expected author role, got %q err=%v", role, err)
	}
	_, err := ParseRole("admin")
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewTaskTrimsAndRejectsBlank(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	task, err := NewTask("t1", "u1", "  D  ", "\tC\n", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Description != "D" || task.Comment != "C" {
		t.Fatalf("expected trimmed fields, got %+v", task)
	}
	if task.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected utc timestamps")
	}

	_, err = NewTask("t1", "u1", "   ", "C", now)
	var validation *domainerrors.ValidationError
	if !errors.As(err, &validation) || validation.Fields[0].Field != "description" {
		t.Fatalf("expected description validation error, got %v", err)
	}
}

func TestNewCommentRejectsWhitespaceText(t *testing.T) {
	_, err := NewComment("c1", "t1", "a1", " \n ", time.Now())
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewUserRequiresKnownRole(t *testing.T) {
	_, err := NewUser("u1", "a@x.com", "digest", Role("root"), time.Now())
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNormalizeEmailLowercasesDomainOnly(t *testing.T) {
	cases := map[string]string{
		" U@X.COM ":         "U@x.com",
		"first.Last@Ex.Org": "first.Last@ex.org",
		"no-at-sign":        "no-at-sign",
	}
	for input, want := range cases {
		if got := NormalizeEmail(input); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", input, got, want)
		}
	}

	user, err := NewUser("u1", "a@EXAMPLE.com", "digest", RoleUser, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "a@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
}

func TestOwnedByIgnoresEmptyIDs(t *testing.T) {
	if (Task{}).OwnedBy("") {
		t.Fatalf("empty owner must never match")
	}
	if (Comment{UserID: "a1"}).OwnedBy("a2") {
		t.Fatalf("different owner must not match")
	}
}
