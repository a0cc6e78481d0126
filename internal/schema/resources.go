package schema

import (
	"fmt"
	"strings"
	"time"
)

// Genres accepted for books.
var Genres = []string{
	"fiction", "non-fiction", "mystery", "fantasy", "science-fiction", "romance",
	"thriller", "horror", "biography", "history", "young-adult", "poetry",
}

// MinPublicationYear is the earliest accepted publication year.
const MinPublicationYear = 1900

// Book schemas. BookUpdate shares every rule of BookCreate except required-ness.
var (
	BookCreate = New("book",
		Field{Name: "isbn", Kind: String, Required: true, Rules: "isbn"},
		Field{Name: "title", Kind: String, Required: true, Rules: "min=1,max=200"},
		Field{Name: "author", Kind: String, Required: true, Rules: "min=1,max=100"},
		Field{Name: "genre", Kind: String, Required: true, Lower: true, Rules: "oneof=" + strings.Join(Genres, " ")},
		Field{Name: "publicationYear", Kind: Integer, Required: true,
			Rules: fmt.Sprintf("min=%d,max=%d", MinPublicationYear, time.Now().Year())},
		Field{Name: "price", Kind: Number, Required: true, Rules: "min=0"},
		Field{Name: "description", Kind: String, Rules: "max=2000"},
	)
	BookUpdate = BookCreate.Partial()
)

// User schemas.
var (
	user = New("user",
		Field{Name: "fullName", Kind: String, Required: true, Rules: "min=1,max=100"},
		Field{Name: "email", Kind: String, Required: true, Lower: true, Rules: "email,max=254"},
		Field{Name: "password", Kind: String, Required: true, NoTrim: true, Rules: "min=8,max=72"},
		Field{Name: "roles", Kind: StringList, Rules: "min=1,dive,min=1,max=50"},
	)

	UserRegister   = user.Pick("user.register", "fullName", "email", "password")
	UserUpdate     = user.Partial().Pick("user.update", "fullName", "email", "password", "roles")
	UserUpdateSelf = user.Partial().Pick("user.updateSelf", "fullName", "password")

	UserLogin = New("user.login",
		Field{Name: "email", Kind: String, Required: true, Lower: true, Rules: "email"},
		Field{Name: "password", Kind: String, Required: true, NoTrim: true, Rules: "max=72"},
	)
)
