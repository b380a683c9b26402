package identity

import (
	"context"

	"github.com/mjpos/backend/internal/domain/shared"
)

type UserRepository interface {
	shared.Repository[User]
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
