package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/model"
)

// BookRepository provides CRUD access for the book catalogue.
type BookRepository interface {
	// List returns a filtered, sorted page of books.
	List(ctx context.Context, q model.BookQuery) ([]model.Book, error)
	// GetByID loads a single book.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	// Create inserts a new book.
	Create(ctx context.Context, b *model.Book) error
	// Update applies patch and returns the modified count (0 when nothing changed).
	Update(ctx context.Context, id uuid.UUID, patch model.Patch) (int64, error)
	// Delete removes a book and returns the deleted count.
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
