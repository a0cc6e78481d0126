package postgres

import (
	"context"
	"errors"

	"github.com/and161185/bookstore-api/internal/model"
)

// EditRepo implements EditRepository. It only ever inserts.
type EditRepo struct{ col *Collection }

// NewEditRepo constructs the audit log repository.
func NewEditRepo(db *DB) *EditRepo { return &EditRepo{col: db.Collection(model.CollectionEdits)} }

// Append stores an audit record.
func (r *EditRepo) Append(ctx context.Context, e *model.Edit) error {
	res, err := r.col.InsertOne(ctx, e.ID, e)
	if err != nil {
		return err
	}
	if !res.Acknowledged {
		return errors.New("edits: insert not acknowledged")
	}
	return nil
}
