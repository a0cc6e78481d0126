// Package service contains application services for accounts, sessions and
// the book catalogue.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/repository"
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs session tokens for an identity.
type TokenIssuer interface {
	Issue(id model.Identity) (model.Tokens, error)
}

// Registration is a validated sign-up request.
type Registration struct {
	FullName string
	Email    string
	Password string
}

// AuthService defines registration and login.
type AuthService interface {
	// Register creates a customer account and opens a session for it.
	Register(ctx context.Context, in Registration) (model.User, model.Tokens, error)
	// Login checks credentials and opens a session.
	Login(ctx context.Context, email, password string) (model.User, model.Tokens, error)
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	resolver PermissionResolver
	hasher   Hasher
	tokens   TokenIssuer
	now      func() time.Time
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, resolver PermissionResolver, hasher Hasher, tokens TokenIssuer) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, resolver: resolver, hasher: hasher, tokens: tokens, now: time.Now}
}

// Register stores a new user with a hashed password and the default role.
// A taken email yields errs.ErrAlreadyExists.
func (s *AuthServiceImpl) Register(ctx context.Context, in Registration) (model.User, model.Tokens, error) {
	uid, err := uuid.NewV4()
	if err != nil {
		return model.User{}, model.Tokens{}, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, model.Tokens{}, err
	}
	u := model.User{
		ID:        uid,
		FullName:  in.FullName,
		Email:     in.Email,
		Password:  hash,
		Roles:     []string{model.DefaultRole},
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return model.User{}, model.Tokens{}, err
	}

	tok, err := s.openSession(ctx, u)
	if err != nil {
		return model.User{}, model.Tokens{}, err
	}
	return u, tok, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password both yield errs.ErrInvalidCredentials.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (model.User, model.Tokens, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, model.Tokens{}, errs.ErrInvalidCredentials
		}
		return model.User{}, model.Tokens{}, err
	}
	if !s.hasher.Verify(password, u.Password) {
		return model.User{}, model.Tokens{}, errs.ErrInvalidCredentials
	}

	tok, err := s.openSession(ctx, *u)
	if err != nil {
		return model.User{}, model.Tokens{}, err
	}
	return *u, tok, nil
}

// openSession resolves the user's permissions and signs a token carrying them.
func (s *AuthServiceImpl) openSession(ctx context.Context, u model.User) (model.Tokens, error) {
	perms, err := s.resolver.Resolve(ctx, u.Roles)
	if err != nil {
		return model.Tokens{}, err
	}
	return s.tokens.Issue(model.Identity{
		UserID:      u.ID,
		Email:       u.Email,
		Roles:       u.Roles,
		Permissions: perms.Slice(),
	})
}
