package services

import (
	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
)

// Decision is the outcome of an authorization rule.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err converts a denial into an ErrForbidden carrying the reason.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return domainerrors.Forbidden(d.Reason)
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// CanCreateTask allows task creation only for the user role.
func CanCreateTask(actor entities.Identity) Decision {
	switch actor.Role {
	case entities.RoleUser:
		return allow()
	case entities.RoleAuthor:
		return deny("only users with role 'user' can create tasks")
	default:
		return deny("unknown role")
	}
}

// CanCreateComment allows comment creation only for the author role. Task
// existence is checked separately by the caller.
func CanCreateComment(actor entities.Identity) Decision {
	switch actor.Role {
	case entities.RoleAuthor:
		return allow()
	case entities.RoleUser:
		return deny("only users with role 'author' can create comments")
	default:
		return deny("unknown role")
	}
}

// CanModifyTask is ownership-only; role plays no part.
func CanModifyTask(actor entities.Identity, task entities.Task) Decision {
	if !task.OwnedBy(actor.UserID) {
		return deny("you can only modify your own tasks")
	}
	return allow()
}

func CanModifyComment(actor entities.Identity, comment entities.Comment) Decision {
	if !comment.OwnedBy(actor.UserID) {
		return deny("you can only modify your own comments")
	}
	return allow()
}

// CanModifyUser grants any authenticated caller update and delete rights over
// any user record.
// TODO: restrict to the record owner once clients stop relying on cross-user edits.
func CanModifyUser(actor entities.Identity, _ entities.User) Decision {
	if actor.UserID == "" {
		return deny("authentication required")
	}
	return allow()
}
