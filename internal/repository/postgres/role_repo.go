package postgres

import (
	"context"

	"github.com/and161185/bookstore-api/internal/model"
)

// RoleRepo implements RoleRepository on the roles collection.
type RoleRepo struct{ col *Collection }

// NewRoleRepo constructs a role repository.
func NewRoleRepo(db *DB) *RoleRepo { return &RoleRepo{col: db.Collection(model.CollectionRoles)} }

// GetByName selects a role by its unique name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*model.Role, error) {
	d, err := r.col.FindOne(ctx, Filter{Equal: []Match{{Field: "name", Value: name}}})
	if err != nil {
		return nil, err
	}
	role, err := decode[model.Role](d)
	if err != nil {
		return nil, err
	}
	role.ID = d.ID
	return &role, nil
}
