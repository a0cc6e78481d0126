package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/and161185/bookstore-api/internal/convert"
	"github.com/and161185/bookstore-api/internal/errs"
)

type bookCreated struct {
	Message string `json:"message"`
	BookID  string `json:"bookId"`
}

func (a *API) listBooks(w http.ResponseWriter, r *http.Request) {
	q, err := parseBookQuery(r.URL.Query())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	books, err := a.books.List(r.Context(), q)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if books == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (a *API) getBook(w http.ResponseWriter, r *http.Request) {
	id := IDFrom(r, "id")
	b, err := a.books.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			err = failf(errs.ErrNotFound, "book %s not found", id)
		}
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (a *API) addBook(w http.ResponseWriter, r *http.Request) {
	b, err := a.books.Create(r.Context(), convert.BookFromDocument(BodyFrom(r)))
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			err = failf(errs.ErrAlreadyExists, "book already exists")
		}
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookCreated{
		Message: fmt.Sprintf("Book %s added with an id of %s", b.Title, b.ID),
		BookID:  b.ID.String(),
	})
}

func (a *API) updateBook(w http.ResponseWriter, r *http.Request) {
	id := IDFrom(r, "id")
	actor, _ := IdentityFromCtx(r.Context())
	err := a.books.Update(r.Context(), actor, id, convert.ToPatch(BodyFrom(r)))
	if err != nil {
		if errors.Is(err, errs.ErrNotModified) {
			err = failf(errs.ErrNotModified, "book %s was not updated", id)
		}
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: fmt.Sprintf("Book %s updated", id)})
}

func (a *API) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := IDFrom(r, "id")
	actor, _ := IdentityFromCtx(r.Context())
	if err := a.books.Delete(r.Context(), actor, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			err = failf(errs.ErrNotFound, "book %s not found", id)
		}
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: fmt.Sprintf("Book %s deleted", id)})
}
