package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/ports"

	"github.com/google/uuid"
)

// Store is the in-process implementation of every repository port. One mutex
// covers all maps so cascades are atomic.
type Store struct {
	mu sync.RWMutex

	users    map[string]entities.User
	tasks    map[string]entities.Task
	comments map[string]entities.Comment
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]entities.User),
		tasks:    make(map[string]entities.Task),
		comments: make(map[string]entities.Comment),
	}
}

func (s *Store) CreateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domainerrors.ErrEmailTaken
		}
	}
	s.users[user.UserID] = cloneUser(user)
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[strings.TrimSpace(userID)]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (entities.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return cloneUser(user), true, nil
		}
	}
	return entities.User{}, false, nil
}

func (s *Store) ListUsers(_ context.Context, page ports.Page) ([]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.User, 0, len(s.users))
	for _, user := range s.users {
		items = append(items, cloneUser(user))
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].CreatedAt, items[i].UserID, items[j].CreatedAt, items[j].UserID)
	})
	return paginate(items, page), nil
}

func (s *Store) UpdateUser(_ context.Context, userID string, changes ports.UserChanges) (entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	if changes.Email != nil && *changes.Email != user.Email {
		for id, other := range s.users {
			if id != userID && other.Email == *changes.Email {
				return entities.User{}, domainerrors.ErrEmailTaken
			}
		}
		user.Email = *changes.Email
	}
	if changes.PasswordHash != nil {
		user.PasswordHash = *changes.PasswordHash
	}
	if changes.Role != nil {
		user.Role = *changes.Role
	}
	user.UpdatedAt = changes.UpdatedAt
	s.users[userID] = user
	return cloneUser(user), nil
}

func (s *Store) SetRefreshTokenHash(_ context.Context, userID string, digest string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	user.RefreshTokenHash = digest
	user.UpdatedAt = updatedAt
	s.users[userID] = user
	return nil
}

func (s *Store) RotateRefreshTokenHash(_ context.Context, userID string, previous string, next string, updatedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok || previous == "" || user.RefreshTokenHash != previous {
		return false, nil
	}
	user.RefreshTokenHash = next
	user.UpdatedAt = updatedAt
	s.users[userID] = user
	return true, nil
}

func (s *Store) DeleteUserCascade(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	owned := make(map[string]struct{})
	for id, task := range s.tasks {
		if task.UserID == userID {
			owned[id] = struct{}{}
		}
	}
	for id, comment := range s.comments {
		_, onOwnedTask := owned[comment.TaskID]
		if comment.UserID == userID || onOwnedTask {
			delete(s.comments, id)
		}
	}
	for id := range owned {
		s.clearLastTaskLocked(id)
		delete(s.tasks, id)
	}
	delete(s.users, userID)
	return nil
}

func (s *Store) CreateTask(_ context.Context, task entities.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.users[task.UserID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	s.tasks[task.TaskID] = task
	taskID := task.TaskID
	owner.LastTaskID = &taskID
	s.users[owner.UserID] = owner
	return nil
}

func (s *Store) GetTask(_ context.Context, taskID string) (entities.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[strings.TrimSpace(taskID)]
	if !ok {
		return entities.Task{}, domainerrors.ErrTaskNotFound
	}
	return task, nil
}

func (s *Store) ListTasks(_ context.Context, page ports.Page) ([]entities.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		items = append(items, task)
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].CreatedAt, items[i].TaskID, items[j].CreatedAt, items[j].TaskID)
	})
	return paginate(items, page), nil
}

func (s *Store) UpdateTask(_ context.Context, taskID string, changes ports.TaskChanges) (entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return entities.Task{}, domainerrors.ErrTaskNotFound
	}
	if changes.Description != nil {
		task.Description = *changes.Description
	}
	if changes.Comment != nil {
		task.Comment = *changes.Comment
	}
	task.UpdatedAt = changes.UpdatedAt
	s.tasks[taskID] = task
	return task, nil
}

func (s *Store) DeleteTaskCascade(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return domainerrors.ErrTaskNotFound
	}
	for id, comment := range s.comments {
		if comment.TaskID == taskID {
			delete(s.comments, id)
		}
	}
	s.clearLastTaskLocked(taskID)
	delete(s.tasks, taskID)
	return nil
}

func (s *Store) CreateComment(_ context.Context, comment entities.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[comment.TaskID]; !ok {
		return domainerrors.ErrTaskNotFound
	}
	if _, ok := s.users[comment.UserID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	s.comments[comment.CommentID] = comment
	return nil
}

func (s *Store) GetComment(_ context.Context, commentID string) (entities.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[strings.TrimSpace(commentID)]
	if !ok {
		return entities.Comment{}, domainerrors.ErrCommentNotFound
	}
	return comment, nil
}

func (s *Store) ListComments(_ context.Context, filter ports.CommentListFilter) ([]entities.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Comment, 0, len(s.comments))
	for _, comment := range s.comments {
		if filter.TaskID != "" && comment.TaskID != filter.TaskID {
			continue
		}
		items = append(items, comment)
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].CreatedAt, items[i].CommentID, items[j].CreatedAt, items[j].CommentID)
	})
	return paginate(items, filter.Page), nil
}

func (s *Store) UpdateComment(_ context.Context, commentID string, changes ports.CommentChanges) (entities.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return entities.Comment{}, domainerrors.ErrCommentNotFound
	}
	if changes.Text != nil {
		comment.Text = *changes.Text
	}
	comment.UpdatedAt = changes.UpdatedAt
	s.comments[commentID] = comment
	return comment, nil
}

func (s *Store) DeleteComment(_ context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[commentID]; !ok {
		return domainerrors.ErrCommentNotFound
	}
	delete(s.comments, commentID)
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// clearLastTaskLocked must run with s.mu held for writing.
func (s *Store) clearLastTaskLocked(taskID string) {
	for id, user := range s.users {
		if user.LastTaskID != nil && *user.LastTaskID == taskID {
			user.LastTaskID = nil
			s.users[id] = user
		}
	}
}

func cloneUser(user entities.User) entities.User {
	if user.LastTaskID != nil {
		taskID := *user.LastTaskID
		user.LastTaskID = &taskID
	}
	return user
}

func newerFirst(leftAt time.Time, leftID string, rightAt time.Time, rightID string) bool {
	if !leftAt.Equal(rightAt) {
		return leftAt.After(rightAt)
	}
	return leftID < rightID
}

func paginate[T any](items []T, page ports.Page) []T {
	if page.Skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit > 0 && page.Skip+page.Limit < end {
		end = page.Skip + page.Limit
	}
	return items[page.Skip:end]
}
