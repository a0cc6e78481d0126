package httpapi

import (
	"context"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/service"
	"github.com/and161185/bookstore-api/internal/token"
)

var testKey = []byte("test-signing-key")

type fakeBooks struct {
	books     map[uuid.UUID]model.Book
	lastQuery model.BookQuery
	lastPatch model.Patch
	modified  bool
	calls     int
}

var _ service.BookService = (*fakeBooks)(nil)

func (f *fakeBooks) List(_ context.Context, q model.BookQuery) ([]model.Book, error) {
	f.calls++
	f.lastQuery = q
	out := make([]model.Book, 0, len(f.books))
	for _, b := range f.books {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBooks) Get(_ context.Context, id uuid.UUID) (*model.Book, error) {
	f.calls++
	b, ok := f.books[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBooks) Create(_ context.Context, b model.Book) (model.Book, error) {
	f.calls++
	b.ID = uuid.Must(uuid.NewV4())
	if f.books == nil {
		f.books = map[uuid.UUID]model.Book{}
	}
	f.books[b.ID] = b
	return b, nil
}

func (f *fakeBooks) Update(_ context.Context, _ model.Identity, _ uuid.UUID, patch model.Patch) error {
	f.calls++
	f.lastPatch = patch
	if !f.modified {
		return errs.ErrNotModified
	}
	return nil
}

func (f *fakeBooks) Delete(_ context.Context, _ model.Identity, id uuid.UUID) error {
	f.calls++
	if _, ok := f.books[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

type fakeUsers struct {
	users     map[uuid.UUID]model.User
	lastActor model.Identity
	lastID    uuid.UUID
	lastPatch model.Patch
	calls     int
}

var _ service.UserService = (*fakeUsers)(nil)

func (f *fakeUsers) List(context.Context, model.UserQuery) ([]model.User, error) {
	f.calls++
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.calls++
	u, ok := f.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) UpdateSelf(ctx context.Context, actor model.Identity, patch model.Patch) ([]string, error) {
	return f.Update(ctx, actor, actor.UserID, patch)
}

func (f *fakeUsers) Update(_ context.Context, actor model.Identity, id uuid.UUID, patch model.Patch) ([]string, error) {
	f.calls++
	f.lastActor, f.lastID, f.lastPatch = actor, id, patch
	if _, ok := f.users[id]; !ok {
		return nil, errs.ErrNotFound
	}
	return slices.Sorted(maps.Keys(patch)), nil
}

func (f *fakeUsers) Delete(_ context.Context, _ model.Identity, id uuid.UUID) error {
	f.calls++
	if _, ok := f.users[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeAuth struct {
	tokens *token.Service
	user   model.User
	pw     string
}

var _ service.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Register(_ context.Context, in service.Registration) (model.User, model.Tokens, error) {
	if in.Email == f.user.Email {
		return model.User{}, model.Tokens{}, errs.ErrAlreadyExists
	}
	u := model.User{ID: uuid.Must(uuid.NewV4()), FullName: in.FullName, Email: in.Email, Roles: []string{model.DefaultRole}}
	tok, err := f.tokens.Issue(model.Identity{UserID: u.ID, Email: u.Email, Roles: u.Roles})
	return u, tok, err
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (model.User, model.Tokens, error) {
	if email != f.user.Email || password != f.pw {
		return model.User{}, model.Tokens{}, errs.ErrInvalidCredentials
	}
	tok, err := f.tokens.Issue(model.Identity{UserID: f.user.ID, Email: email, Roles: f.user.Roles})
	return f.user, tok, err
}

type harness struct {
	h      http.Handler
	tokens *token.Service
	books  *fakeBooks
	users  *fakeUsers
	auth   *fakeAuth
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tokens := token.NewService(testKey, time.Hour)
	hs := &harness{
		tokens: tokens,
		books:  &fakeBooks{books: map[uuid.UUID]model.Book{}},
		users:  &fakeUsers{users: map[uuid.UUID]model.User{}},
		auth: &fakeAuth{
			tokens: tokens,
			user:   model.User{ID: uuid.Must(uuid.NewV4()), FullName: "Ada", Email: "ada@x.com", Roles: []string{"customer"}},
			pw:     "longenough1",
		},
	}
	api := New(Deps{
		Log:     zaptest.NewLogger(t),
		Auth:    hs.auth,
		Books:   hs.books,
		Users:   hs.users,
		Tokens:  tokens,
		Metrics: NewMetrics(),
		Cookie:  CookieConfig{MaxAge: time.Hour},
	})
	hs.h = api.Routes()
	return hs
}

// bearer issues a token for an identity holding perms.
func (hs *harness) bearer(t *testing.T, perms ...string) (string, model.Identity) {
	t.Helper()
	id := model.Identity{UserID: uuid.Must(uuid.NewV4()), Email: "staff@x.com", Roles: []string{"staff"}, Permissions: perms}
	tok, err := hs.tokens.Issue(id)
	require.NoError(t, err)
	return tok.AccessToken, id
}

func (hs *harness) do(method, path, body, tok string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	hs.h.ServeHTTP(rec, req)
	return rec
}
