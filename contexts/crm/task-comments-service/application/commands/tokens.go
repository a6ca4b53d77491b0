package commands

import (
	"context"
	"errors"
	"log/slog"

	application "taskboard/contexts/crm/task-comments-service/application"
	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	"taskboard/contexts/crm/task-comments-service/ports"
)

type LoginCommand struct {
	Email    string
	Password string
}

// LoginUseCase exchanges credentials for a token pair and replaces the stored
// refresh digest.
type LoginUseCase struct {
	Users    ports.UserRepository
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenCodec
	Digester ports.TokenDigester
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (entities.TokenPair, error) {
	logger := application.ResolveLogger(u.Logger)

	user, found, err := u.Users.GetUserByEmail(ctx, entities.NormalizeEmail(cmd.Email))
	if err != nil {
		return entities.TokenPair{}, err
	}
	if !found || !u.Hasher.Verify(cmd.Password, user.PasswordHash) {
		logger.Info("login rejected",
			"event", "taskboard_login_rejected",
			"module", moduleName,
			"layer", "application",
		)
		return entities.TokenPair{}, domainerrors.ErrInvalidCredentials
	}

	pair, err := issueTokenPair(u.Tokens, user.Identity())
	if err != nil {
		return entities.TokenPair{}, err
	}
	if err := u.Users.SetRefreshTokenHash(ctx, user.UserID, u.Digester.Digest(pair.RefreshToken), u.Clock.Now().UTC()); err != nil {
		logger.Error("store refresh digest failed",
			"event", "taskboard_login_store_refresh_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", user.UserID,
			"error", err.Error(),
		)
		return entities.TokenPair{}, err
	}

	logger.Info("user logged in",
		"event", "taskboard_user_logged_in",
		"module", moduleName,
		"layer", "application",
		"user_id", user.UserID,
	)
	return pair, nil
}

type RefreshTokensCommand struct {
	RefreshToken string
}

// RefreshTokensUseCase rotates a refresh token. The presented token must match
// the digest currently stored for its subject; the swap is compare-and-set so
// one token can be redeemed at most once.
type RefreshTokensUseCase struct {
	Users    ports.UserRepository
	Tokens   ports.TokenCodec
	Digester ports.TokenDigester
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u RefreshTokensUseCase) Execute(ctx context.Context, cmd RefreshTokensCommand) (entities.TokenPair, error) {
	logger := application.ResolveLogger(u.Logger)

	claims, err := u.Tokens.Verify(cmd.RefreshToken, entities.TokenTypeRefresh)
	if err != nil {
		return entities.TokenPair{}, domainerrors.ErrInvalidToken
	}
	user, err := u.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return entities.TokenPair{}, domainerrors.ErrInvalidToken
		}
		return entities.TokenPair{}, err
	}
	if user.RefreshTokenHash == "" || !u.Digester.Matches(cmd.RefreshToken, user.RefreshTokenHash) {
		logger.Info("refresh rejected",
			"event", "taskboard_refresh_digest_mismatch",
			"module", moduleName,
			"layer", "application",
			"user_id", user.UserID,
		)
		return entities.TokenPair{}, domainerrors.ErrInvalidToken
	}

	pair, err := issueTokenPair(u.Tokens, user.Identity())
	if err != nil {
		return entities.TokenPair{}, err
	}
	rotated, err := u.Users.RotateRefreshTokenHash(ctx, user.UserID, user.RefreshTokenHash, u.Digester.Digest(pair.RefreshToken), u.Clock.Now().UTC())
	if err != nil {
		logger.Error("rotate refresh digest failed",
			"event", "taskboard_refresh_rotate_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", user.UserID,
			"error", err.Error(),
		)
		return entities.TokenPair{}, err
	}
	if !rotated {
		logger.Info("refresh lost rotation race",
			"event", "taskboard_refresh_rotation_conflict",
			"module", moduleName,
			"layer", "application",
			"user_id", user.UserID,
		)
		return entities.TokenPair{}, domainerrors.ErrInvalidToken
	}

	logger.Info("tokens refreshed",
		"event", "taskboard_tokens_refreshed",
		"module", moduleName,
		"layer", "application",
		"user_id", user.UserID,
	)
	return pair, nil
}

func issueTokenPair(tokens ports.TokenCodec, identity entities.Identity) (entities.TokenPair, error) {
	access, err := tokens.IssueAccess(identity)
	if err != nil {
		return entities.TokenPair{}, err
	}
	refresh, err := tokens.IssueRefresh(identity)
	if err != nil {
		return entities.TokenPair{}, err
	}
	return entities.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    entities.BearerTokenType,
	}, nil
}
