package service

import (
	"context"
	"sort"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/repository"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.User

	getErr    error
	updateErr error
	updates   []model.Patch
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers(users ...model.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]*model.User{}}
	for i := range users {
		u := users[i]
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) List(context.Context, model.UserQuery) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	c := *u
	f.byID[u.ID] = &c
	return nil
}

func (f *fakeUsers) Update(_ context.Context, id uuid.UUID, patch model.Patch) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return 0, nil
	}
	f.updates = append(f.updates, patch)
	for k, v := range patch {
		switch k {
		case "fullName":
			u.FullName = v.(string)
		case "email":
			u.Email = v.(string)
		case "password":
			u.Password = v.(string)
		case "roles":
			u.Roles = v.([]string)
		}
	}
	return 1, nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

type fakeRoles struct {
	byName map[string]model.Role
	err    error
	calls  []string
}

var _ repository.RoleRepository = (*fakeRoles)(nil)

func (f *fakeRoles) GetByName(_ context.Context, name string) (*model.Role, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.byName[name]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &r, nil
}

func seedRoles() *fakeRoles {
	return &fakeRoles{byName: map[string]model.Role{
		"customer": {Name: "customer"},
		"employee": {Name: "employee", Permissions: []string{"canAddBook", "canEditBook"}},
		"admin": {Name: "admin", Inherits: []string{"employee"}, Permissions: []string{
			"canDeleteBook", "canListUsers", "canViewUser", "canEditUser", "canDeleteUser",
		}},
	}}
}

type fakeEdits struct {
	edits []model.Edit
	err   error
}

var _ repository.EditRepository = (*fakeEdits)(nil)

func (f *fakeEdits) Append(_ context.Context, e *model.Edit) error {
	if f.err != nil {
		return f.err
	}
	f.edits = append(f.edits, *e)
	return nil
}

type fakeBooks struct {
	byID      map[uuid.UUID]model.Book
	modified  int64
	lastQuery model.BookQuery
	updates   int
	deletes   int
}

var _ repository.BookRepository = (*fakeBooks)(nil)

func (f *fakeBooks) List(_ context.Context, q model.BookQuery) ([]model.Book, error) {
	f.lastQuery = q
	return nil, nil
}

func (f *fakeBooks) GetByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBooks) Create(_ context.Context, b *model.Book) error {
	if f.byID == nil {
		f.byID = map[uuid.UUID]model.Book{}
	}
	f.byID[b.ID] = *b
	return nil
}

func (f *fakeBooks) Update(context.Context, uuid.UUID, model.Patch) (int64, error) {
	f.updates++
	return f.modified, nil
}

func (f *fakeBooks) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	f.deletes++
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}
