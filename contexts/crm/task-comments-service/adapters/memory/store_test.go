package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/ports"
)

var base = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, store *Store, id string, email string, role entities.Role) entities.User {
	t.Helper()
	user, err := entities.NewUser(id, email, "digest", role, base)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func seedTask(t *testing.T, store *Store, id string, owner string, at time.Time) entities.Task {
	t.Helper()
	task, err := entities.NewTask(id, owner, "D", "C", at)
	require.NoError(t, err)
	require.NoError(t, store.CreateTask(context.Background(), task))
	return task
}

func seedComment(t *testing.T, store *Store, id string, taskID string, owner string, at time.Time) {
	t.Helper()
	comment, err := entities.NewComment(id, taskID, owner, "text", at)
	require.NoError(t, err)
	require.NoError(t, store.CreateComment(context.Background(), comment))
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	store := NewStore()
	seedUser(t, store, "u1", "a@x.com", entities.RoleUser)

	dup, err := entities.NewUser("u2", "a@x.com", "digest", entities.RoleAuthor, base)
	require.NoError(t, err)
	require.ErrorIs(t, store.CreateUser(context.Background(), dup), domainerrors.ErrEmailTaken)
}

func TestCreateTaskAdvancesLastTaskPointer(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedUser(t, store, "u1", "a@x.com", entities.RoleUser)

	seedTask(t, store, "t1", "u1", base)
	seedTask(t, store, "t2", "u1", base.Add(time.Minute))

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user.LastTaskID)
	assert.Equal(t, "t2", *user.LastTaskID)
}

func TestDeleteTaskCascadeRemovesCommentsAndPointer(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedUser(t, store, "u1", "a@x.com", entities.RoleUser)
	seedUser(t, store, "a1", "b@x.com", entities.RoleAuthor)
	seedTask(t, store, "t1", "u1", base)
	seedTask(t, store, "t2", "u1", base)
	seedComment(t, store, "c1", "t1", "a1", base)
	seedComment(t, store, "c2", "t2", "a1", base)

	// t2 is the last task; delete it.
	require.NoError(t, store.DeleteTaskCascade(ctx, "t2"))

	_, err := store.GetTask(ctx, "t2")
	require.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
	_, err = store.GetComment(ctx, "c2")
	require.ErrorIs(t, err, domainerrors.ErrCommentNotFound)
	_, err = store.GetComment(ctx, "c1")
	require.NoError(t, err)

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, user.LastTaskID)
}

func TestDeleteUserCascade(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedUser(t, store, "u1", "a@x.com", entities.RoleUser)
	seedUser(t, store, "u2", "c@x.com", entities.RoleUser)
	seedUser(t, store, "a1", "b@x.com", entities.RoleAuthor)
	seedTask(t, store, "t1", "u1", base)
	seedTask(t, store, "t2", "u2", base)
	seedComment(t, store, "c1", "t1", "a1", base)
	seedComment(t, store, "c2", "t2", "a1", base)

	require.NoError(t, store.DeleteUserCascade(ctx, "a1"))
	comments, err := store.ListComments(ctx, ports.CommentListFilter{Page: ports.Page{Limit: 100}})
	require.NoError(t, err)
	assert.Empty(t, comments)

	seedUser(t, store, "a2", "d@x.com", entities.RoleAuthor)
	seedComment(t, store, "c3", "t1", "a2", base)
	require.NoError(t, store.DeleteUserCascade(ctx, "u1"))

	_, err = store.GetTask(ctx, "t1")
	require.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
	_, err = store.GetComment(ctx, "c3")
	require.ErrorIs(t, err, domainerrors.ErrCommentNotFound)
	_, err = store.GetTask(ctx, "t2")
	require.NoError(t, err)
	require.ErrorIs(t, store.DeleteUserCascade(ctx, "u1"), domainerrors.ErrUserNotFound)
}

func TestRotateRefreshTokenHashIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedUser(t, store, "u1", "a@x.com", entities.RoleUser)
	require.NoError(t, store.SetRefreshTokenHash(ctx, "u1", "h1", base))

	ok, err := store.RotateRefreshTokenHash(ctx, "u1", "h1", "h2", base)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.RotateRefreshTokenHash(ctx, "u1", "h1", "h3", base)
	require.NoError(t, err)
	assert.False(t, ok)

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "h2", user.RefreshTokenHash)
}

func TestListTasksNewestFirstWithPagination(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedUser(t, store, "u1", "a@x.com", entities.RoleUser)
	seedTask(t, store, "t1", "u1", base)
	seedTask(t, store, "t2", "u1", base.Add(time.Minute))
	seedTask(t, store, "t3", "u1", base.Add(2*time.Minute))

	all, err := store.ListTasks(ctx, ports.Page{Limit: 100})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{all[0].TaskID, all[1].TaskID, all[2].TaskID})

	page, err := store.ListTasks(ctx, ports.Page{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "t2", page[0].TaskID)

	beyond, err := store.ListTasks(ctx, ports.Page{Skip: 10, Limit: 1})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestListCommentsFiltersByTask(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedUser(t, store, "u1", "a@x.com", entities.RoleUser)
	seedUser(t, store, "a1", "b@x.com", entities.RoleAuthor)
	seedTask(t, store, "t1", "u1", base)
	seedTask(t, store, "t2", "u1", base)
	seedComment(t, store, "c1", "t1", "a1", base)
	seedComment(t, store, "c2", "t2", "a1", base)

	comments, err := store.ListComments(ctx, ports.CommentListFilter{TaskID: "t1", Page: ports.Page{Limit: 100}})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].CommentID)
}

func TestUpdateUserRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedUser(t, store, "u1", "a@x.com", entities.RoleUser)
	seedUser(t, store, "u2", "b@x.com", entities.RoleUser)

	taken := "b@x.com"
	_, err := store.UpdateUser(ctx, "u1", ports.UserChanges{Email: &taken, UpdatedAt: base})
	require.ErrorIs(t, err, domainerrors.ErrEmailTaken)
}
