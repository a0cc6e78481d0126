package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/model"
)

// BookTextFields are searched by the book list keywords filter.
var BookTextFields = []string{"title", "author", "description", "isbn"}

var bookSorts = map[string]Sort{
	"author": {Field: "author", Kind: SortText},
	"price":  {Field: "price", Kind: SortNumeric},
	"year":   {Field: "publicationYear", Kind: SortNumeric},
}

// BookRepo implements BookRepository on the books collection.
type BookRepo struct{ col *Collection }

// NewBookRepo constructs a book repository.
func NewBookRepo(db *DB) *BookRepo { return &BookRepo{col: db.Collection(model.CollectionBooks)} }

// List selects books by keywords, genre and price range.
func (r *BookRepo) List(ctx context.Context, q model.BookQuery) ([]model.Book, error) {
	f := Filter{Text: q.Keywords, TextFields: BookTextFields}
	if q.Genre != "" {
		f.Equal = append(f.Equal, Match{Field: "genre", Value: q.Genre})
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		f.Ranges = append(f.Ranges, Range{Field: "price", Gte: q.MinPrice, Lte: q.MaxPrice})
	}
	s, ok := bookSorts[q.SortBy]
	if !ok {
		s = bookSorts["author"]
	}

	docs, err := r.col.FindMany(ctx, f, s, q.Page.Skip(), q.Page.Size)
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0, len(docs))
	for _, d := range docs {
		b, err := decode[model.Book](d)
		if err != nil {
			return nil, err
		}
		b.ID = d.ID
		books = append(books, b)
	}
	return books, nil
}

// GetByID selects a book by ID.
func (r *BookRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	d, err := r.col.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := decode[model.Book](d)
	if err != nil {
		return nil, err
	}
	b.ID = d.ID
	return &b, nil
}

// Create inserts a new book document.
func (r *BookRepo) Create(ctx context.Context, b *model.Book) error {
	res, err := r.col.InsertOne(ctx, b.ID, b)
	if err != nil {
		return err
	}
	if !res.Acknowledged {
		return errors.New("books: insert not acknowledged")
	}
	return nil
}

// Update merges patch into the book.
func (r *BookRepo) Update(ctx context.Context, id uuid.UUID, patch model.Patch) (int64, error) {
	res, err := r.col.UpdateOne(ctx, id, patch)
	return res.ModifiedCount, err
}

// Delete removes the book.
func (r *BookRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, id)
	return res.DeletedCount, err
}
