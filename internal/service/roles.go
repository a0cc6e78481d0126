package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/repository"
)

// PermissionResolver expands role names into the effective permission set.
type PermissionResolver interface {
	Resolve(ctx context.Context, roles []string) (model.PermissionSet, error)
}

// RoleResolver resolves permissions by walking role inheritance.
type RoleResolver struct {
	roles repository.RoleRepository
}

// NewRoleResolver constructs a resolver over the role store.
func NewRoleResolver(roles repository.RoleRepository) *RoleResolver {
	return &RoleResolver{roles: roles}
}

// Resolve returns the union of the direct and inherited permissions of roles.
// Every role is visited at most once per call, so cyclic inheritance
// terminates. Unknown roles contribute nothing.
func (r *RoleResolver) Resolve(ctx context.Context, roles []string) (model.PermissionSet, error) {
	perms := model.PermissionSet{}
	visited := make(map[string]struct{})

	stack := make([]string, 0, len(roles))
	for i := len(roles) - 1; i >= 0; i-- {
		stack = append(stack, roles[i])
	}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[name]; seen {
			continue
		}
		visited[name] = struct{}{}

		role, err := r.roles.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve role %q: %w", name, err)
		}
		perms.Add(role.Permissions...)
		for i := len(role.Inherits) - 1; i >= 0; i-- {
			stack = append(stack, role.Inherits[i])
		}
	}
	return perms, nil
}
