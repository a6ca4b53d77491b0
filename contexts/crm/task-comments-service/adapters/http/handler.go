package httpadapter

import (
	"context"
	"log/slog"

	application "taskboard/contexts/crm/task-comments-service/application"
	"taskboard/contexts/crm/task-comments-service/application/commands"
	"taskboard/contexts/crm/task-comments-service/application/queries"
	"taskboard/contexts/crm/task-comments-service/domain/entities"
	"taskboard/contexts/crm/task-comments-service/ports"
	httptransport "taskboard/contexts/crm/task-comments-service/transport/http"
)

const moduleName = "crm/task-comments-service"

// Handler adapts transport DTOs to use cases. Every method validates its input
// before any use case runs.
type Handler struct {
	RegisterUser  commands.RegisterUserUseCase
	Login         commands.LoginUseCase
	RefreshTokens commands.RefreshTokensUseCase
	Authenticate  queries.AuthenticateUseCase
	GetUser       queries.GetUserUseCase
	ListUsers     queries.ListUsersUseCase
	UpdateUser    commands.UpdateUserUseCase
	DeleteUser    commands.DeleteUserUseCase
	CreateTask    commands.CreateTaskUseCase
	GetTask       queries.GetTaskUseCase
	ListTasks     queries.ListTasksUseCase
	UpdateTask    commands.UpdateTaskUseCase
	DeleteTask    commands.DeleteTaskUseCase
	CreateComment commands.CreateCommentUseCase
	GetComment    queries.GetCommentUseCase
	ListComments  queries.ListCommentsUseCase
	UpdateComment commands.UpdateCommentUseCase
	DeleteComment commands.DeleteCommentUseCase
	Logger        *slog.Logger
}

// RegisterHandler godoc
// @Summary Register a user
// @Description Creates a user with role "user" (default) or "author".
// @Tags auth
// @Accept json
// @Produce json
// @Param request body httptransport.RegisterRequest true "Registration payload"
// @Success 201 {object} httptransport.UserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /auth/register [post]
func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (_ httptransport.UserResponse, err error) {
	defer h.trace("register", "role", req.Role)(&err)
	if err := req.Validate(); err != nil {
		return httptransport.UserResponse{}, err
	}
	role := entities.RoleUser
	if req.Role != "" {
		parsed, err := entities.ParseRole(req.Role)
		if err != nil {
			return httptransport.UserResponse{}, err
		}
		role = parsed
	}
	user, err := h.RegisterUser.Execute(ctx, commands.RegisterUserCommand{
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return mapUser(user), nil
}

// LoginHandler godoc
// @Summary Log in
// @Description Exchanges credentials for an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body httptransport.LoginRequest true "Credentials"
// @Success 200 {object} httptransport.TokenResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /auth/login [post]
func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (_ httptransport.TokenResponse, err error) {
	defer h.trace("login")(&err)
	if err := req.Validate(); err != nil {
		return httptransport.TokenResponse{}, err
	}
	pair, err := h.Login.Execute(ctx, commands.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return mapTokenPair(pair), nil
}

// RefreshHandler godoc
// @Summary Rotate tokens
// @Description Redeems a refresh token once for a new token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body httptransport.RefreshRequest true "Refresh token"
// @Success 200 {object} httptransport.TokenResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /auth/refresh [post]
func (h Handler) RefreshHandler(ctx context.Context, req httptransport.RefreshRequest) (_ httptransport.TokenResponse, err error) {
	defer h.trace("refresh")(&err)
	if err := req.Validate(); err != nil {
		return httptransport.TokenResponse{}, err
	}
	pair, err := h.RefreshTokens.Execute(ctx, commands.RefreshTokensCommand{RefreshToken: *req.RefreshToken})
	if err != nil {
		return httptransport.TokenResponse{}, err
	}
	return mapTokenPair(pair), nil
}

// AuthenticateHandler resolves a bearer token to the current caller.
func (h Handler) AuthenticateHandler(ctx context.Context, bearerToken string) (_ entities.Identity, err error) {
	defer h.trace("authenticate")(&err)
	return h.Authenticate.Execute(ctx, bearerToken)
}

// ListUsersHandler godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset (default 0)"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Success 200 {array} httptransport.UserResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /users [get]
func (h Handler) ListUsersHandler(ctx context.Context, req httptransport.ListRequest) (_ []httptransport.UserResponse, err error) {
	defer h.trace("list_users")(&err)
	page, err := parsePage(req)
	if err != nil {
		return nil, err
	}
	users, err := h.ListUsers.Execute(ctx, page)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, mapUser(user))
	}
	return items, nil
}

// GetUserHandler godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User id"
// @Success 200 {object} httptransport.UserResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /users/{user_id} [get]
func (h Handler) GetUserHandler(ctx context.Context, userID string) (_ httptransport.UserResponse, err error) {
	defer h.trace("get_user", "user_id", userID)(&err)
	id, err := httptransport.ParseID("user_id", userID)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	user, err := h.GetUser.Execute(ctx, id)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return mapUser(user), nil
}

// UpdateUserHandler godoc
// @Summary Update a user
// @Description Partial update; password is re-hashed. Any authenticated caller may update any user.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User id"
// @Param request body httptransport.UpdateUserRequest true "Fields to change"
// @Success 200 {object} httptransport.UserResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /users/{user_id} [patch]
func (h Handler) UpdateUserHandler(
	ctx context.Context,
	actor entities.Identity,
	userID string,
	req httptransport.UpdateUserRequest,
) (_ httptransport.UserResponse, err error) {
	defer h.trace("update_user", "actor_id", actor.UserID, "user_id", userID)(&err)
	id, err := httptransport.ParseID("user_id", userID)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return httptransport.UserResponse{}, err
	}
	cmd := commands.UpdateUserCommand{
		Actor:    actor,
		UserID:   id,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role, err := entities.ParseRole(*req.Role)
		if err != nil {
			return httptransport.UserResponse{}, err
		}
		cmd.Role = &role
	}
	user, err := h.UpdateUser.Execute(ctx, cmd)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return mapUser(user), nil
}

// DeleteUserHandler godoc
// @Summary Delete a user
// @Description Removes the user, their tasks and every comment on or by them.
// @Tags users
// @Security BearerAuth
// @Param user_id path string true "User id"
// @Success 204
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /users/{user_id} [delete]
func (h Handler) DeleteUserHandler(ctx context.Context, actor entities.Identity, userID string) (err error) {
	defer h.trace("delete_user", "actor_id", actor.UserID, "user_id", userID)(&err)
	id, err := httptransport.ParseID("user_id", userID)
	if err != nil {
		return err
	}
	return h.DeleteUser.Execute(ctx, commands.DeleteUserCommand{Actor: actor, UserID: id})
}

// CreateTaskHandler godoc
// @Summary Create a task
// @Description Only callers with role "user" may create tasks.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateTaskRequest true "Task payload"
// @Success 201 {object} httptransport.TaskResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /tasks [post]
func (h Handler) CreateTaskHandler(ctx context.Context, actor entities.Identity, req httptransport.CreateTaskRequest) (_ httptransport.TaskResponse, err error) {
	defer h.trace("create_task", "actor_id", actor.UserID)(&err)
	if err := req.Validate(); err != nil {
		return httptransport.TaskResponse{}, err
	}
	task, err := h.CreateTask.Execute(ctx, commands.CreateTaskCommand{
		Actor:       actor,
		Description: req.Description,
		Comment:     req.Comment,
	})
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return mapTask(task), nil
}

// ListTasksHandler godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset (default 0)"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Success 200 {array} httptransport.TaskResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /tasks [get]
func (h Handler) ListTasksHandler(ctx context.Context, req httptransport.ListRequest) (_ []httptransport.TaskResponse, err error) {
	defer h.trace("list_tasks")(&err)
	page, err := parsePage(req)
	if err != nil {
		return nil, err
	}
	tasks, err := h.ListTasks.Execute(ctx, page)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, mapTask(task))
	}
	return items, nil
}

// GetTaskHandler godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param task_id path string true "Task id"
// @Success 200 {object} httptransport.TaskResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /tasks/{task_id} [get]
func (h Handler) GetTaskHandler(ctx context.Context, taskID string) (_ httptransport.TaskResponse, err error) {
	defer h.trace("get_task", "task_id", taskID)(&err)
	id, err := httptransport.ParseID("task_id", taskID)
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	task, err := h.GetTask.Execute(ctx, id)
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return mapTask(task), nil
}

// UpdateTaskHandler godoc
// @Summary Update a task
// @Description Owner only; absent fields are left untouched.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task_id path string true "Task id"
// @Param request body httptransport.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} httptransport.TaskResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /tasks/{task_id} [patch]
func (h Handler) UpdateTaskHandler(
	ctx context.Context,
	actor entities.Identity,
	taskID string,
	req httptransport.UpdateTaskRequest,
) (_ httptransport.TaskResponse, err error) {
	defer h.trace("update_task", "actor_id", actor.UserID, "task_id", taskID)(&err)
	id, err := httptransport.ParseID("task_id", taskID)
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return httptransport.TaskResponse{}, err
	}
	task, err := h.UpdateTask.Execute(ctx, commands.UpdateTaskCommand{
		Actor:       actor,
		TaskID:      id,
		Description: req.Description,
		Comment:     req.Comment,
	})
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return mapTask(task), nil
}

// DeleteTaskHandler godoc
// @Summary Delete a task
// @Description Owner only; removes the task's comments and clears last-task references.
// @Tags tasks
// @Security BearerAuth
// @Param task_id path string true "Task id"
// @Success 204
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /tasks/{task_id} [delete]
func (h Handler) DeleteTaskHandler(ctx context.Context, actor entities.Identity, taskID string) (err error) {
	defer h.trace("delete_task", "actor_id", actor.UserID, "task_id", taskID)(&err)
	id, err := httptransport.ParseID("task_id", taskID)
	if err != nil {
		return err
	}
	return h.DeleteTask.Execute(ctx, commands.DeleteTaskCommand{Actor: actor, TaskID: id})
}

// CreateCommentHandler godoc
// @Summary Comment on a task
// @Description Only callers with role "author" may comment; the task must exist.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateCommentRequest true "Comment payload"
// @Success 201 {object} httptransport.CommentResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /comments [post]
func (h Handler) CreateCommentHandler(ctx context.Context, actor entities.Identity, req httptransport.CreateCommentRequest) (_ httptransport.CommentResponse, err error) {
	defer h.trace("create_comment", "actor_id", actor.UserID, "task_id", req.TaskID)(&err)
	if err := req.Validate(); err != nil {
		return httptransport.CommentResponse{}, err
	}
	taskID, err := httptransport.ParseID("task_id", req.TaskID)
	if err != nil {
		return httptransport.CommentResponse{}, err
	}
	comment, err := h.CreateComment.Execute(ctx, commands.CreateCommentCommand{
		Actor:  actor,
		TaskID: taskID,
		Text:   req.Text,
	})
	if err != nil {
		return httptransport.CommentResponse{}, err
	}
	return mapComment(comment), nil
}

// ListCommentsHandler godoc
// @Summary List comments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param task_id query string false "Only comments on this task"
// @Param skip query int false "Offset (default 0)"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Success 200 {array} httptransport.CommentResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /comments [get]
func (h Handler) ListCommentsHandler(ctx context.Context, req httptransport.ListCommentsRequest) (_ []httptransport.CommentResponse, err error) {
	defer h.trace("list_comments", "task_id", req.TaskID)(&err)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	page, err := parsePage(req.ListRequest)
	if err != nil {
		return nil, err
	}
	filter := ports.CommentListFilter{Page: page}
	if req.TaskID != "" {
		filter.TaskID, err = httptransport.ParseID("task_id", req.TaskID)
		if err != nil {
			return nil, err
		}
	}
	comments, err := h.ListComments.Execute(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, mapComment(comment))
	}
	return items, nil
}

// GetCommentHandler godoc
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param comment_id path string true "Comment id"
// @Success 200 {object} httptransport.CommentResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /comments/{comment_id} [get]
func (h Handler) GetCommentHandler(ctx context.Context, commentID string) (_ httptransport.CommentResponse, err error) {
	defer h.trace("get_comment", "comment_id", commentID)(&err)
	id, err := httptransport.ParseID("comment_id", commentID)
	if err != nil {
		return httptransport.CommentResponse{}, err
	}
	comment, err := h.GetComment.Execute(ctx, id)
	if err != nil {
		return httptransport.CommentResponse{}, err
	}
	return mapComment(comment), nil
}

// UpdateCommentHandler godoc
// @Summary Update a comment
// @Description Owner only.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comment_id path string true "Comment id"
// @Param request body httptransport.UpdateCommentRequest true "Fields to change"
// @Success 200 {object} httptransport.CommentResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /comments/{comment_id} [patch]
func (h Handler) UpdateCommentHandler(
	ctx context.Context,
	actor entities.Identity,
	commentID string,
	req httptransport.UpdateCommentRequest,
) (_ httptransport.CommentResponse, err error) {
	defer h.trace("update_comment", "actor_id", actor.UserID, "comment_id", commentID)(&err)
	id, err := httptransport.ParseID("comment_id", commentID)
	if err != nil {
		return httptransport.CommentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return httptransport.CommentResponse{}, err
	}
	comment, err := h.UpdateComment.Execute(ctx, commands.UpdateCommentCommand{
		Actor:     actor,
		CommentID: id,
		Text:      req.Text,
	})
	if err != nil {
		return httptransport.CommentResponse{}, err
	}
	return mapComment(comment), nil
}

// DeleteCommentHandler godoc
// @Summary Delete a comment
// @Description Owner only.
// @Tags comments
// @Security BearerAuth
// @Param comment_id path string true "Comment id"
// @Success 204
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /comments/{comment_id} [delete]
func (h Handler) DeleteCommentHandler(ctx context.Context, actor entities.Identity, commentID string) (err error) {
	defer h.trace("delete_comment", "actor_id", actor.UserID, "comment_id", commentID)(&err)
	id, err := httptransport.ParseID("comment_id", commentID)
	if err != nil {
		return err
	}
	return h.DeleteComment.Execute(ctx, commands.DeleteCommentCommand{Actor: actor, CommentID: id})
}

// trace logs an incoming request at debug level. The returned func logs the
// failure, if any, once the handler returns.
func (h Handler) trace(operation string, attrs ...any) func(*error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http request received", h.logFields(operation, "received", attrs)...)
	return func(errp *error) {
		if *errp == nil {
			return
		}
		fields := append(h.logFields(operation, "failed", attrs), "error", (*errp).Error())
		logger.Warn("http request failed", fields...)
	}
}

func (h Handler) logFields(operation string, outcome string, attrs []any) []any {
	fields := make([]any, 0, 6+len(attrs))
	fields = append(fields,
		"event", "taskboard_http_"+operation+"_"+outcome,
		"module", moduleName,
		"layer", "transport",
	)
	return append(fields, attrs...)
}

func parsePage(req httptransport.ListRequest) (ports.Page, error) {
	skip, limit, err := req.ParsePage()
	if err != nil {
		return ports.Page{}, err
	}
	return ports.Page{Skip: skip, Limit: limit}, nil
}

func mapUser(user entities.User) httptransport.UserResponse {
	return httptransport.UserResponse{
		ID:        user.UserID,
		Email:     user.Email,
		Role:      string(user.Role),
		TaskID:    user.LastTaskID,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func mapTask(task entities.Task) httptransport.TaskResponse {
	return httptransport.TaskResponse{
		ID:          task.TaskID,
		UserID:      task.UserID,
		Description: task.Description,
		Comment:     task.Comment,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func mapComment(comment entities.Comment) httptransport.CommentResponse {
	return httptransport.CommentResponse{
		ID:        comment.CommentID,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

func mapTokenPair(pair entities.TokenPair) httptransport.TokenResponse {
	return httptransport.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	}
}
