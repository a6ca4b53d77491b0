package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"

	usersEmailConstraint = "users_email_key"
	commentsTaskFKey     = "comments_task_id_fkey"
	listOrder            = "created_at DESC, id ASC"
)

// Repository implements the user, task and comment ports on gorm. Multi-row
// writes run in one transaction each.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user entities.User) error {
	row := userModelFromEntity(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) && constraintName(err) == usersEmailConstraint {
			return domainerrors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (entities.User, bool, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Limit(1).
		Find(&rows).
		Error; err != nil {
		return entities.User{}, false, err
	}
	if len(rows) == 0 {
		return entities.User{}, false, nil
	}
	return rows[0].toEntity(), true, nil
}

func (r *Repository) ListUsers(ctx context.Context, page ports.Page) ([]entities.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Order(listOrder).
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateUser(ctx context.Context, userID string, changes ports.UserChanges) (entities.User, error) {
	updates := map[string]any{"updated_at": changes.UpdatedAt.UTC()}
	if changes.Email != nil {
		updates["email"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		updates["password"] = *changes.PasswordHash
	}
	if changes.Role != nil {
		updates["role"] = string(*changes.Role)
	}

	var row userModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&userModel{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			if isUniqueViolation(result.Error) && constraintName(result.Error) == usersEmailConstraint {
				return domainerrors.ErrEmailTaken
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrUserNotFound
		}
		return tx.Where("id = ?", userID).First(&row).Error
	})
	if err != nil {
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SetRefreshTokenHash(ctx context.Context, userID string, digest string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"refresh_token_hash": digest,
			"updated_at":         updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

// RotateRefreshTokenHash is a single conditional UPDATE; the row lock it takes
// serializes concurrent rotations of the same token.
func (r *Repository) RotateRefreshTokenHash(ctx context.Context, userID string, previous string, next string, updatedAt time.Time) (bool, error) {
	if previous == "" {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ? AND refresh_token_hash = ?", userID, previous).
		Updates(map[string]any{
			"refresh_token_hash": next,
			"updated_at":         updatedAt.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *Repository) DeleteUserCascade(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedTasks := tx.Model(&taskModel{}).Select("id").Where("user_id = ?", userID)

		if err := tx.Where("user_id = ? OR task_id IN (?)", userID, ownedTasks).
			Delete(&commentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&userModel{}).
			Where("task_id IN (?)", ownedTasks).
			Update("task_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&taskModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", userID).Delete(&userModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrUserNotFound
		}
		r.logger.Debug("user cascade deleted",
			"event", "taskboard_user_cascade_deleted",
			"module", "crm/task-comments-service",
			"layer", "adapter",
			"user_id", userID,
		)
		return nil
	})
}

func (r *Repository) CreateTask(ctx context.Context, task entities.Task) error {
	row := taskModelFromEntity(task)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isForeignKeyViolation(err) {
				return domainerrors.ErrUserNotFound
			}
			return err
		}
		result := tx.Model(&userModel{}).
			Where("id = ?", row.UserID).
			Update("task_id", row.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrUserNotFound
		}
		return nil
	})
}

func (r *Repository) GetTask(ctx context.Context, taskID string) (entities.Task, error) {
	var row taskModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(taskID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Task{}, domainerrors.ErrTaskNotFound
		}
		return entities.Task{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTasks(ctx context.Context, page ports.Page) ([]entities.Task, error) {
	var rows []taskModel
	if err := r.db.WithContext(ctx).
		Order(listOrder).
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Task, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateTask(ctx context.Context, taskID string, changes ports.TaskChanges) (entities.Task, error) {
	updates := map[string]any{"updated_at": changes.UpdatedAt.UTC()}
	if changes.Description != nil {
		updates["description"] = *changes.Description
	}
	if changes.Comment != nil {
		updates["comment"] = *changes.Comment
	}

	var row taskModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&taskModel{}).Where("id = ?", taskID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrTaskNotFound
		}
		return tx.Where("id = ?", taskID).First(&row).Error
	})
	if err != nil {
		return entities.Task{}, err
	}
	return row.toEntity(), nil
}

// DeleteTaskCascade deletes comments, then clears last-task pointers, then
// the task itself so no foreign key is ever left dangling.
func (r *Repository) DeleteTaskCascade(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&commentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&userModel{}).
			Where("task_id = ?", taskID).
			Update("task_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", taskID).Delete(&taskModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrTaskNotFound
		}
		return nil
	})
}

func (r *Repository) CreateComment(ctx context.Context, comment entities.Comment) error {
	row := commentModelFromEntity(comment)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isForeignKeyViolation(err) {
			if constraintName(err) == commentsTaskFKey {
				return domainerrors.ErrTaskNotFound
			}
			return domainerrors.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *Repository) GetComment(ctx context.Context, commentID string) (entities.Comment, error) {
	var row commentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(commentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Comment{}, domainerrors.ErrCommentNotFound
		}
		return entities.Comment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListComments(ctx context.Context, filter ports.CommentListFilter) ([]entities.Comment, error) {
	tx := r.db.WithContext(ctx).Model(&commentModel{})
	if strings.TrimSpace(filter.TaskID) != "" {
		tx = tx.Where("task_id = ?", strings.TrimSpace(filter.TaskID))
	}

	var rows []commentModel
	if err := tx.Order(listOrder).
		Offset(filter.Page.Skip).
		Limit(filter.Page.Limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Comment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateComment(ctx context.Context, commentID string, changes ports.CommentChanges) (entities.Comment, error) {
	updates := map[string]any{"updated_at": changes.UpdatedAt.UTC()}
	if changes.Text != nil {
		updates["text"] = *changes.Text
	}

	var row commentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&commentModel{}).Where("id = ?", commentID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrCommentNotFound
		}
		return tx.Where("id = ?", commentID).First(&row).Error
	})
	if err != nil {
		return entities.Comment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) DeleteComment(ctx context.Context, commentID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&commentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCommentNotFound
	}
	return nil
}

type userModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	Email            string    `gorm:"column:email"`
	Password         string    `gorm:"column:password"`
	Role             string    `gorm:"column:role"`
	TaskID           *string   `gorm:"column:task_id"`
	RefreshTokenHash *string   `gorm:"column:refresh_token_hash"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromEntity(user entities.User) userModel {
	row := userModel{
		ID:        user.UserID,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      string(user.Role),
		TaskID:    user.LastTaskID,
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: user.UpdatedAt.UTC(),
	}
	if user.RefreshTokenHash != "" {
		digest := user.RefreshTokenHash
		row.RefreshTokenHash = &digest
	}
	return row
}

func (m userModel) toEntity() entities.User {
	user := entities.User{
		UserID:       m.ID,
		Email:        m.Email,
		PasswordHash: m.Password,
		Role:         entities.Role(m.Role),
		LastTaskID:   m.TaskID,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
	if m.RefreshTokenHash != nil {
		user.RefreshTokenHash = *m.RefreshTokenHash
	}
	return user
}

type taskModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	UserID      string    `gorm:"column:user_id"`
	Description string    `gorm:"column:description"`
	Comment     string    `gorm:"column:comment"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (taskModel) TableName() string {
	return "tasks"
}

func taskModelFromEntity(task entities.Task) taskModel {
	return taskModel{
		ID:          task.TaskID,
		UserID:      task.UserID,
		Description: task.Description,
		Comment:     task.Comment,
		CreatedAt:   task.CreatedAt.UTC(),
		UpdatedAt:   task.UpdatedAt.UTC(),
	}
}

func (m taskModel) toEntity() entities.Task {
	return entities.Task{
		TaskID:      m.ID,
		UserID:      m.UserID,
		Description: m.Description,
		Comment:     m.Comment,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type commentModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	TaskID    string    `gorm:"column:task_id"`
	UserID    string    `gorm:"column:user_id"`
	Text      string    `gorm:"column:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (commentModel) TableName() string {
	return "comments"
}

func commentModelFromEntity(comment entities.Comment) commentModel {
	return commentModel{
		ID:        comment.CommentID,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt.UTC(),
		UpdatedAt: comment.UpdatedAt.UTC(),
	}
}

func (m commentModel) toEntity() entities.Comment {
	return entities.Comment{
		CommentID: m.ID,
		TaskID:    m.TaskID,
		UserID:    m.UserID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
