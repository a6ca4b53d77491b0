//go:build integration

package postgresadapter

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/ports"
	"taskboard/internal/platform/db"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("taskboard_test"),
		postgres.WithUsername("taskboard"),
		postgres.WithPassword("taskboard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := db.NewMigrator(dsn)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	pg, err := db.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Close() })

	return NewRepository(pg.DB, nil)
}

func seedUser(t *testing.T, repo *Repository, email string, role entities.Role, at time.Time) entities.User {
	t.Helper()
	user, err := entities.NewUser(uuid.NewString(), email, "digest", role, at)
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestRepositoryAgainstPostgres(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	owner := seedUser(t, repo, "owner@x.com", entities.RoleUser, now)
	author := seedUser(t, repo, "author@x.com", entities.RoleAuthor, now.Add(time.Second))

	t.Run("duplicate email maps to email taken", func(t *testing.T) {
		dup, err := entities.NewUser(uuid.NewString(), "owner@x.com", "digest", entities.RoleUser, now)
		require.NoError(t, err)
		require.ErrorIs(t, repo.CreateUser(ctx, dup), domainerrors.ErrEmailTaken)

		taken := "author@x.com"
		_, err = repo.UpdateUser(ctx, owner.UserID, ports.UserChanges{Email: &taken, UpdatedAt: now})
		require.ErrorIs(t, err, domainerrors.ErrEmailTaken)
	})

	t.Run("refresh digest rotation is compare and swap", func(t *testing.T) {
		require.NoError(t, repo.SetRefreshTokenHash(ctx, owner.UserID, "d1", now))

		ok, err := repo.RotateRefreshTokenHash(ctx, owner.UserID, "d1", "d2", now)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.RotateRefreshTokenHash(ctx, owner.UserID, "d1", "d3", now)
		require.NoError(t, err)
		assert.False(t, ok)

		stored, err := repo.GetUser(ctx, owner.UserID)
		require.NoError(t, err)
		assert.Equal(t, "d2", stored.RefreshTokenHash)
	})

	t.Run("task lifecycle cascades", func(t *testing.T) {
		task, err := entities.NewTask(uuid.NewString(), owner.UserID, "D", "C", now)
		require.NoError(t, err)
		require.NoError(t, repo.CreateTask(ctx, task))

		stored, err := repo.GetUser(ctx, owner.UserID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastTaskID)
		assert.Equal(t, task.TaskID, *stored.LastTaskID)

		comment, err := entities.NewComment(uuid.NewString(), task.TaskID, author.UserID, "hi", now)
		require.NoError(t, err)
		require.NoError(t, repo.CreateComment(ctx, comment))

		orphan, err := entities.NewComment(uuid.NewString(), uuid.NewString(), author.UserID, "hi", now)
		require.NoError(t, err)
		require.ErrorIs(t, repo.CreateComment(ctx, orphan), domainerrors.ErrTaskNotFound)

		text := "edited"
		updated, err := repo.UpdateComment(ctx, comment.CommentID, ports.CommentChanges{Text: &text, UpdatedAt: now.Add(time.Minute)})
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Text)

		comments, err := repo.ListComments(ctx, ports.CommentListFilter{TaskID: task.TaskID, Page: ports.Page{Limit: 10}})
		require.NoError(t, err)
		assert.Len(t, comments, 1)

		require.NoError(t, repo.DeleteTaskCascade(ctx, task.TaskID))
		_, err = repo.GetComment(ctx, comment.CommentID)
		require.ErrorIs(t, err, domainerrors.ErrCommentNotFound)
		stored, err = repo.GetUser(ctx, owner.UserID)
		require.NoError(t, err)
		assert.Nil(t, stored.LastTaskID)
		require.ErrorIs(t, repo.DeleteTaskCascade(ctx, task.TaskID), domainerrors.ErrTaskNotFound)
	})

	t.Run("user delete cascades tasks and comments", func(t *testing.T) {
		task, err := entities.NewTask(uuid.NewString(), owner.UserID, "D", "C", now)
		require.NoError(t, err)
		require.NoError(t, repo.CreateTask(ctx, task))
		comment, err := entities.NewComment(uuid.NewString(), task.TaskID, author.UserID, "hi", now)
		require.NoError(t, err)
		require.NoError(t, repo.CreateComment(ctx, comment))

		require.NoError(t, repo.DeleteUserCascade(ctx, owner.UserID))
		_, err = repo.GetTask(ctx, task.TaskID)
		require.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
		_, err = repo.GetComment(ctx, comment.CommentID)
		require.ErrorIs(t, err, domainerrors.ErrCommentNotFound)
		require.ErrorIs(t, repo.DeleteUserCascade(ctx, owner.UserID), domainerrors.ErrUserNotFound)
	})

	t.Run("lists are newest first", func(t *testing.T) {
		users, err := repo.ListUsers(ctx, ports.Page{Limit: 10})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, author.UserID, users[0].UserID)

		users, err = repo.ListUsers(ctx, ports.Page{Skip: 1, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}
