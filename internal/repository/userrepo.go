// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/model"
)

// UserRepository provides CRUD access for user accounts.
type UserRepository interface {
	// List returns a filtered, sorted page of users.
	List(ctx context.Context, q model.UserQuery) ([]model.User, error)
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by (lower-case) email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Create inserts a new user; a taken email yields errs.ErrAlreadyExists.
	Create(ctx context.Context, u *model.User) error
	// Update applies patch to the user and returns the modified count.
	Update(ctx context.Context, id uuid.UUID, patch model.Patch) (int64, error)
	// Delete removes the user and returns the deleted count.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// RoleRepository resolves role definitions by name.
type RoleRepository interface {
	// GetByName loads a role; a missing role yields errs.ErrNotFound.
	GetByName(ctx context.Context, name string) (*model.Role, error)
}

// EditRepository is the append-only audit log.
type EditRepository interface {
	// Append stores a new audit record.
	Append(ctx context.Context, e *model.Edit) error
}
