package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/repository"
)

// Audit operations.
const (
	OpUpdate = "update"
	OpDelete = "delete"
)

// Auditor appends edit records for successful mutations.
type Auditor struct {
	edits repository.EditRepository
	now   func() time.Time
}

// NewAuditor constructs an auditor over the edit log.
func NewAuditor(edits repository.EditRepository) *Auditor {
	return &Auditor{edits: edits, now: time.Now}
}

// Record appends one edit made by actor.
func (a *Auditor) Record(ctx context.Context, op, collection string, target uuid.UUID, actor model.Identity) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	e := &model.Edit{
		ID:         id,
		Timestamp:  a.now().UTC(),
		Op:         op,
		Collection: collection,
		Target:     target,
		Auth:       actor,
	}
	if err := a.edits.Append(ctx, e); err != nil {
		return fmt.Errorf("audit %s %s/%s: %w", op, collection, target, err)
	}
	return nil
}
