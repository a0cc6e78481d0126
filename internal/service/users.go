package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/repository"
)

const passwordField = "password"

// UserService defines account administration and self-service.
type UserService interface {
	List(ctx context.Context, q model.UserQuery) ([]model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	// UpdateSelf applies patch to the actor's own account.
	UpdateSelf(ctx context.Context, actor model.Identity, patch model.Patch) ([]string, error)
	// Update applies patch to any account.
	Update(ctx context.Context, actor model.Identity, id uuid.UUID, patch model.Patch) ([]string, error)
	// Delete removes the account; an absent account yields errs.ErrNotFound.
	Delete(ctx context.Context, actor model.Identity, id uuid.UUID) error
}

type UserServiceImpl struct {
	users  repository.UserRepository
	hasher Hasher
	audit  *Auditor
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository, hasher Hasher, audit *Auditor) *UserServiceImpl {
	return &UserServiceImpl{users: users, hasher: hasher, audit: audit}
}

// List returns one page of matching users.
func (s *UserServiceImpl) List(ctx context.Context, q model.UserQuery) ([]model.User, error) {
	q.Page = clampPage(q.Page)
	return s.users.List(ctx, q)
}

// Get fetches a user by id.
func (s *UserServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateSelf updates the account identified by the actor's session, never
// any other.
func (s *UserServiceImpl) UpdateSelf(ctx context.Context, actor model.Identity, patch model.Patch) ([]string, error) {
	return s.update(ctx, actor, actor.UserID, patch)
}

// Update updates the account with the given id.
func (s *UserServiceImpl) Update(ctx context.Context, actor model.Identity, id uuid.UUID, patch model.Patch) ([]string, error) {
	return s.update(ctx, actor, id, patch)
}

// update loads the target, merges patch over it and persists only the
// fields that changed. It returns the changed field names.
func (s *UserServiceImpl) update(ctx context.Context, actor model.Identity, id uuid.UUID, patch model.Patch) ([]string, error) {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	base, err := model.ToDocument(current)
	if err != nil {
		return nil, fmt.Errorf("user document: %w", err)
	}

	incoming := make(model.Patch, len(patch))
	for k, v := range patch {
		incoming[k] = v
	}
	if pw, ok := incoming[passwordField].(string); ok {
		if s.hasher.Verify(pw, current.Password) {
			delete(incoming, passwordField)
		} else {
			hash, err := s.hasher.Hash(pw)
			if err != nil {
				return nil, err
			}
			incoming[passwordField] = hash
		}
	}

	_, changed := incoming.Apply(base)
	if len(changed) == 0 {
		return nil, errs.ErrNotModified
	}
	n, err := s.users.Update(ctx, id, incoming.Only(changed))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errs.ErrNotModified
	}
	if err := s.audit.Record(ctx, OpUpdate, model.CollectionUsers, id, actor); err != nil {
		return nil, err
	}
	return changed, nil
}

// Delete removes the account and audits the deletion.
func (s *UserServiceImpl) Delete(ctx context.Context, actor model.Identity, id uuid.UUID) error {
	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return s.audit.Record(ctx, OpDelete, model.CollectionUsers, id, actor)
}
