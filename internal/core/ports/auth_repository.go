package ports

import (
	"context"

	"github.com/storefront/catalog-service/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create persists the user with its role assignments. A uniqueness
	// violation is reported as domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
