package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/schema"
)

const maxBodyBytes = 1 << 20

// Guard is one named precondition of a route. Run either rejects the
// request or returns it, possibly with validated values attached.
type Guard struct {
	Name string
	Run  func(w http.ResponseWriter, r *http.Request) (*http.Request, error)
}

// Guarded runs guards in order and calls h only when every guard passes.
// The first failing guard writes the response.
func Guarded(log *zap.Logger, h http.HandlerFunc, guards ...Guard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, g := range guards {
			next, err := g.Run(w, r)
			if err != nil {
				log.Debug("request rejected",
					zap.String("guard", g.Name),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeError(w, err)
				return
			}
			r = next
		}
		h(w, r)
	})
}

// RequireLogin rejects requests without an authenticated identity.
func RequireLogin() Guard {
	return Guard{Name: "login", Run: func(_ http.ResponseWriter, r *http.Request) (*http.Request, error) {
		if _, ok := IdentityFromCtx(r.Context()); !ok {
			return nil, failf(errs.ErrUnauthenticated, "login required")
		}
		return r, nil
	}}
}

// RequirePermission rejects identities lacking perm.
func RequirePermission(perm string) Guard {
	return Guard{Name: "permission:" + perm, Run: func(_ http.ResponseWriter, r *http.Request) (*http.Request, error) {
		id, ok := IdentityFromCtx(r.Context())
		if !ok {
			return nil, failf(errs.ErrUnauthenticated, "login required")
		}
		if !id.Can(perm) {
			return nil, failf(errs.ErrForbidden, "missing permission %s", perm)
		}
		return r, nil
	}}
}

// ValidID checks that the route parameter is a well-formed identifier. It
// does not check that anything exists under it.
func ValidID(param string) Guard {
	return Guard{Name: "id:" + param, Run: func(_ http.ResponseWriter, r *http.Request) (*http.Request, error) {
		raw := chi.URLParam(r, param)
		id, err := ParseID(raw)
		if err != nil {
			return nil, failf(errs.ErrValidation, "invalid %s: %s", param, raw)
		}
		return r.WithContext(withID(r.Context(), param, id)), nil
	}}
}

// ValidBody decodes the JSON object body and validates it against s.
func ValidBody(s schema.Schema) Guard {
	return Guard{Name: "body:" + s.Name, Run: func(w http.ResponseWriter, r *http.Request) (*http.Request, error) {
		var in map[string]any
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&in); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, failf(errs.ErrValidation, "request body too large")
			}
			return nil, failf(errs.ErrValidation, "request body must be a JSON object")
		}
		if in == nil {
			return nil, failf(errs.ErrValidation, "request body must be a JSON object")
		}
		doc, err := s.Validate(in)
		if err != nil {
			return nil, err
		}
		return r.WithContext(withBody(r.Context(), doc)), nil
	}}
}

// ParseID accepts only the canonical hyphenated form of an identifier.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, err
	}
	if id.String() != strings.ToLower(raw) {
		return uuid.Nil, errors.New("identifier not in canonical form")
	}
	return id, nil
}
