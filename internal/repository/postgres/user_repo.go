package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/model"
)

// UserTextFields are searched by the user list keywords filter.
var UserTextFields = []string{"fullName", "email"}

var userSorts = map[string]Sort{
	"fullName": {Field: "fullName", Kind: SortText},
	"email":    {Field: "email", Kind: SortText},
	"newest":   {Kind: SortCreated, Desc: true},
	"oldest":   {Kind: SortCreated},
}

// UserRepo implements UserRepository on the users collection.
type UserRepo struct{ col *Collection }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{col: db.Collection(model.CollectionUsers)} }

// List selects users by keywords and role.
func (r *UserRepo) List(ctx context.Context, q model.UserQuery) ([]model.User, error) {
	f := Filter{Text: q.Keywords, TextFields: UserTextFields}
	if q.Role != "" {
		f.Contains = append(f.Contains, Match{Field: "roles", Value: q.Role})
	}
	s, ok := userSorts[q.SortBy]
	if !ok {
		s = userSorts["fullName"]
	}

	docs, err := r.col.FindMany(ctx, f, s, q.Page.Skip(), q.Page.Size)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		u, err := decode[model.User](d)
		if err != nil {
			return nil, err
		}
		u.ID = d.ID
		users = append(users, u)
	}
	return users, nil
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	d, err := r.col.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return userFromDoc(d)
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	d, err := r.col.FindOne(ctx, Filter{Equal: []Match{{Field: "email", Value: email}}})
	if err != nil {
		return nil, err
	}
	return userFromDoc(d)
}

// Create inserts a new user document.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.col.InsertOne(ctx, u.ID, u)
	if err != nil {
		return err
	}
	if !res.Acknowledged {
		return errors.New("users: insert not acknowledged")
	}
	return nil
}

// Update merges patch into the user.
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, patch model.Patch) (int64, error) {
	res, err := r.col.UpdateOne(ctx, id, patch)
	return res.ModifiedCount, err
}

// Delete removes the user.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, id)
	return res.DeletedCount, err
}

func userFromDoc(d Doc) (*model.User, error) {
	u, err := decode[model.User](d)
	if err != nil {
		return nil, err
	}
	u.ID = d.ID
	return &u, nil
}
