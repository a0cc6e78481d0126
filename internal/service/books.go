package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/repository"
)

// BookService defines catalogue operations.
type BookService interface {
	List(ctx context.Context, q model.BookQuery) ([]model.Book, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Book, error)
	// Create stores b under a fresh id and returns it.
	Create(ctx context.Context, b model.Book) (model.Book, error)
	// Update persists patch; a patch that changes nothing yields errs.ErrNotModified.
	Update(ctx context.Context, actor model.Identity, id uuid.UUID, patch model.Patch) error
	// Delete removes the book; an absent book yields errs.ErrNotFound.
	Delete(ctx context.Context, actor model.Identity, id uuid.UUID) error
}

type BookServiceImpl struct {
	books repository.BookRepository
	audit *Auditor
}

// NewBookService constructs BookService.
func NewBookService(books repository.BookRepository, audit *Auditor) *BookServiceImpl {
	return &BookServiceImpl{books: books, audit: audit}
}

// List returns one page of matching books.
func (s *BookServiceImpl) List(ctx context.Context, q model.BookQuery) ([]model.Book, error) {
	q.Page = clampPage(q.Page)
	return s.books.List(ctx, q)
}

// Get fetches a book by id.
func (s *BookServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return s.books.GetByID(ctx, id)
}

// Create inserts a new book.
func (s *BookServiceImpl) Create(ctx context.Context, b model.Book) (model.Book, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.Book{}, err
	}
	b.ID = id
	if err := s.books.Create(ctx, &b); err != nil {
		return model.Book{}, err
	}
	return b, nil
}

// Update merges patch into the book and audits the change.
func (s *BookServiceImpl) Update(ctx context.Context, actor model.Identity, id uuid.UUID, patch model.Patch) error {
	n, err := s.books.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotModified
	}
	return s.audit.Record(ctx, OpUpdate, model.CollectionBooks, id, actor)
}

// Delete removes the book and audits the deletion.
func (s *BookServiceImpl) Delete(ctx context.Context, actor model.Identity, id uuid.UUID) error {
	n, err := s.books.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return s.audit.Record(ctx, OpDelete, model.CollectionBooks, id, actor)
}
