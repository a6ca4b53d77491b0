package taskcomments

import (
	"log/slog"

	"taskboard/contexts/crm/task-comments-service/adapters/hashing"
	httpadapter "taskboard/contexts/crm/task-comments-service/adapters/http"
	"taskboard/contexts/crm/task-comments-service/adapters/memory"
	"taskboard/contexts/crm/task-comments-service/adapters/tokens"
	"taskboard/contexts/crm/task-comments-service/application/commands"
	"taskboard/contexts/crm/task-comments-service/application/queries"
	"taskboard/contexts/crm/task-comments-service/ports"
)

// DevSecret signs tokens for in-memory modules and local runs only.
const DevSecret = "your-secret-key-change-this-in-production"

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Users       ports.UserRepository
	Tasks       ports.TaskRepository
	Comments    ports.CommentRepository
	Hasher      ports.PasswordHasher
	Digester    ports.TokenDigester
	Tokens      ports.TokenCodec
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registerUser := commands.RegisterUserUseCase{
		Users:  deps.Users,
		Hasher: deps.Hasher,
		IDs:    deps.IDGenerator,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	login := commands.LoginUseCase{
		Users:    deps.Users,
		Hasher:   deps.Hasher,
		Tokens:   deps.Tokens,
		Digester: deps.Digester,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	refreshTokens := commands.RefreshTokensUseCase{
		Users:    deps.Users,
		Tokens:   deps.Tokens,
		Digester: deps.Digester,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	updateUser := commands.UpdateUserUseCase{
		Users:  deps.Users,
		Hasher: deps.Hasher,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	deleteUser := commands.DeleteUserUseCase{
		Users:  deps.Users,
		Logger: deps.Logger,
	}
	createTask := commands.CreateTaskUseCase{
		Tasks:  deps.Tasks,
		IDs:    deps.IDGenerator,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	updateTask := commands.UpdateTaskUseCase{
		Tasks:  deps.Tasks,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	deleteTask := commands.DeleteTaskUseCase{
		Tasks:  deps.Tasks,
		Logger: deps.Logger,
	}
	createComment := commands.CreateCommentUseCase{
		Comments: deps.Comments,
		Tasks:    deps.Tasks,
		IDs:      deps.IDGenerator,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	updateComment := commands.UpdateCommentUseCase{
		Comments: deps.Comments,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	deleteComment := commands.DeleteCommentUseCase{
		Comments: deps.Comments,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			RegisterUser:  registerUser,
			Login:         login,
			RefreshTokens: refreshTokens,
			Authenticate:  queries.AuthenticateUseCase{Users: deps.Users, Tokens: deps.Tokens, Logger: deps.Logger},
			GetUser:       queries.GetUserUseCase{Users: deps.Users, Logger: deps.Logger},
			ListUsers:     queries.ListUsersUseCase{Users: deps.Users, Logger: deps.Logger},
			UpdateUser:    updateUser,
			DeleteUser:    deleteUser,
			CreateTask:    createTask,
			GetTask:       queries.GetTaskUseCase{Tasks: deps.Tasks, Logger: deps.Logger},
			ListTasks:     queries.ListTasksUseCase{Tasks: deps.Tasks, Logger: deps.Logger},
			UpdateTask:    updateTask,
			DeleteTask:    deleteTask,
			CreateComment: createComment,
			GetComment:    queries.GetCommentUseCase{Comments: deps.Comments, Logger: deps.Logger},
			ListComments:  queries.ListCommentsUseCase{Comments: deps.Comments, Logger: deps.Logger},
			UpdateComment: updateComment,
			DeleteComment: deleteComment,
			Logger:        deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module to a fresh in-memory store, the dev
// signing secret and low-cost argon2id parameters. It is meant for tests and
// local runs without a database.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	codec, err := tokens.NewCodec(tokens.Config{
		Secret: []byte(DevSecret),
		Now:    store.Now,
	})
	if err != nil {
		panic(err)
	}
	module := NewModule(Dependencies{
		Users:       store,
		Tasks:       store,
		Comments:    store,
		Hasher:      hashing.NewArgon2idHasher(hashing.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32}),
		Digester:    hashing.SHA256TokenDigester{},
		Tokens:      codec,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
