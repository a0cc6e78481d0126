package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/and161185/bookstore-api/internal/convert"
	"github.com/and161185/bookstore-api/internal/errs"
)

type sessionOpened struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
	Token   string `json:"token"`
}

type userUpdated struct {
	Message string   `json:"message"`
	Updated []string `json:"updated"`
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	q, err := parseUserQuery(r.URL.Query())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	users, err := a.users.List(r.Context(), q)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToUserViews(users))
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id := IDFrom(r, "id")
	u, err := a.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			err = failf(errs.ErrNotFound, "user %s not found", id)
		}
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convert.ToUserView(*u))
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	in := convert.RegistrationFromDocument(BodyFrom(r))
	u, tok, err := a.auth.Register(r.Context(), in)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			err = failf(errs.ErrAlreadyExists, "email %s is already registered", in.Email)
		}
		a.fail(w, r, err)
		return
	}
	a.cookie.set(w, tok)
	writeJSON(w, http.StatusOK, sessionOpened{
		Message: fmt.Sprintf("User %s added with an id of %s", u.FullName, u.ID),
		UserID:  u.ID.String(),
		Token:   tok.AccessToken,
	})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	email, password := convert.CredentialsFromDocument(BodyFrom(r))
	u, tok, err := a.auth.Login(r.Context(), email, password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.cookie.set(w, tok)
	writeJSON(w, http.StatusOK, sessionOpened{
		Message: "Welcome " + u.FullName,
		UserID:  u.ID.String(),
		Token:   tok.AccessToken,
	})
}

func (a *API) logout(w http.ResponseWriter, _ *http.Request) {
	a.cookie.clear(w)
	writeJSON(w, http.StatusOK, messageBody{Message: "Logged out"})
}

func (a *API) updateMe(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFromCtx(r.Context())
	changed, err := a.users.UpdateSelf(r.Context(), actor, convert.ToPatch(BodyFrom(r)))
	if err != nil {
		a.fail(w, r, userUpdateError(err, actor.UserID.String()))
		return
	}
	writeJSON(w, http.StatusOK, userUpdated{Message: "User " + actor.UserID.String() + " updated", Updated: changed})
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	id := IDFrom(r, "id")
	actor, _ := IdentityFromCtx(r.Context())
	changed, err := a.users.Update(r.Context(), actor, id, convert.ToPatch(BodyFrom(r)))
	if err != nil {
		a.fail(w, r, userUpdateError(err, id.String()))
		return
	}
	writeJSON(w, http.StatusOK, userUpdated{Message: "User " + id.String() + " updated", Updated: changed})
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := IDFrom(r, "id")
	actor, _ := IdentityFromCtx(r.Context())
	if err := a.users.Delete(r.Context(), actor, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			err = failf(errs.ErrNotFound, "user %s not found", id)
		}
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: fmt.Sprintf("User %s deleted", id)})
}

func userUpdateError(err error, id string) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return failf(errs.ErrNotFound, "user %s not found", id)
	case errors.Is(err, errs.ErrNotModified):
		return failf(errs.ErrNotModified, "user %s was not updated", id)
	case errors.Is(err, errs.ErrAlreadyExists):
		return failf(errs.ErrAlreadyExists, "email is already registered")
	}
	return err
}
