package postgresadapter

import (
	"context"

	"github.com/google/uuid"
)

// UUIDGenerator creates random UUIDv4 primary keys for users, tasks and comments.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
