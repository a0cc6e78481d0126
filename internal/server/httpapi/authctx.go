package httpapi

import (
	"context"
	"net/http"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/schema"
)

type ctxKey string

const (
	identityKey ctxKey = "bs.identity"
	bodyKey     ctxKey = "bs.body"
)

// WithIdentity stores the authenticated identity in context.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx fetches the authenticated identity from context.
func IdentityFromCtx(ctx context.Context) (model.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok
}

func withID(ctx context.Context, param string, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey("bs.id."+param), id)
}

// IDFrom returns the identifier validated by ValidID(param).
func IDFrom(r *http.Request, param string) uuid.UUID {
	id, _ := r.Context().Value(ctxKey("bs.id." + param)).(uuid.UUID)
	return id
}

func withBody(ctx context.Context, doc schema.Document) context.Context {
	return context.WithValue(ctx, bodyKey, doc)
}

// BodyFrom returns the document validated by ValidBody.
func BodyFrom(r *http.Request) schema.Document {
	doc, _ := r.Context().Value(bodyKey).(schema.Document)
	return doc
}
