package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
)

var (
	owner  = entities.Identity{UserID: "u-1", Role: entities.RoleUser}
	other  = entities.Identity{UserID: "u-2", Role: entities.RoleUser}
	author = entities.Identity{UserID: "a-1", Role: entities.RoleAuthor}
)

func TestCanCreateTask(t *testing.T) {
	assert.True(t, CanCreateTask(owner).Allowed)

	decision := CanCreateTask(author)
	assert.False(t, decision.Allowed)
	require.ErrorIs(t, decision.Err(), domainerrors.ErrForbidden)
	assert.Equal(t, "only users with role 'user' can create tasks", decision.Err().Error())

	assert.False(t, CanCreateTask(entities.Identity{UserID: "x", Role: "admin"}).Allowed)
}

func TestCanCreateComment(t *testing.T) {
	assert.True(t, CanCreateComment(author).Allowed)

	decision := CanCreateComment(owner)
	assert.False(t, decision.Allowed)
	require.ErrorIs(t, decision.Err(), domainerrors.ErrForbidden)
}

func TestOwnershipIsIndependentOfRole(t *testing.T) {
	task := entities.Task{TaskID: "t-1", UserID: owner.UserID}
	assert.True(t, CanModifyTask(owner, task).Allowed)
	assert.False(t, CanModifyTask(other, task).Allowed)
	assert.False(t, CanModifyTask(author, task).Allowed)

	otherAuthor := entities.Identity{UserID: "a-2", Role: entities.RoleAuthor}
	comment := entities.Comment{CommentID: "c-1", TaskID: "t-1", UserID: author.UserID}
	assert.True(t, CanModifyComment(author, comment).Allowed)
	decision := CanModifyComment(otherAuthor, comment)
	assert.False(t, decision.Allowed)
	require.ErrorIs(t, decision.Err(), domainerrors.ErrForbidden)
}

func TestAllowedDecisionHasNoError(t *testing.T) {
	assert.NoError(t, CanCreateTask(owner).Err())
}

// Any authenticated caller may edit or delete any user record. This pins the
// current behavior so a change to it is deliberate.
func TestCanModifyUserIsUnrestricted(t *testing.T) {
	target := entities.User{UserID: owner.UserID, Role: entities.RoleUser}
	assert.True(t, CanModifyUser(other, target).Allowed)
	assert.True(t, CanModifyUser(author, target).Allowed)
	assert.False(t, CanModifyUser(entities.Identity{}, target).Allowed)
}
