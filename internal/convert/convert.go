// Package convert maps validated request documents to domain values and
// domain values to their public JSON views.
package convert

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cast"

	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/schema"
	"github.com/and161185/bookstore-api/internal/service"
)

// --- Books ---

// BookFromDocument builds a book from a document validated by schema.BookCreate.
func BookFromDocument(doc schema.Document) model.Book {
	return model.Book{
		ISBN:            cast.ToString(doc["isbn"]),
		Title:           cast.ToString(doc["title"]),
		Author:          cast.ToString(doc["author"]),
		Genre:           cast.ToString(doc["genre"]),
		PublicationYear: cast.ToInt(doc["publicationYear"]),
		Price:           cast.ToFloat64(doc["price"]),
		Description:     cast.ToString(doc["description"]),
	}
}

// --- Users ---

// RegistrationFromDocument builds a sign-up request from a document validated
// by schema.UserRegister.
func RegistrationFromDocument(doc schema.Document) service.Registration {
	return service.Registration{
		FullName: cast.ToString(doc["fullName"]),
		Email:    cast.ToString(doc["email"]),
		Password: cast.ToString(doc["password"]),
	}
}

// CredentialsFromDocument extracts a document validated by schema.UserLogin.
func CredentialsFromDocument(doc schema.Document) (email, password string) {
	return cast.ToString(doc["email"]), cast.ToString(doc["password"])
}

// UserView is the public form of a user. It never carries the password hash.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserView strips credentials from u.
func ToUserView(u model.User) UserView {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserView{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserViews converts a page of users.
func ToUserViews(users []model.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserView(u))
	}
	return out
}

// --- Patches ---

// ToPatch turns a document validated by a partial schema into a store patch.
func ToPatch(doc schema.Document) model.Patch {
	p := make(model.Patch, len(doc))
	for k, v := range doc {
		p[k] = v
	}
	return p
}
