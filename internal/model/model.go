// Package model defines domain entities used by services and repositories.
package model

import (
	"math"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Collection names of the document store.
const (
	CollectionBooks = "books"
	CollectionUsers = "users"
	CollectionRoles = "roles"
	CollectionEdits = "edits"
)

// DefaultRole is assigned to every self-registered user.
const DefaultRole = "customer"

// Permissions checked by the route guards.
const (
	PermAddBook    = "canAddBook"
	PermEditBook   = "canEditBook"
	PermDeleteBook = "canDeleteBook"
	PermListUsers  = "canListUsers"
	PermViewUser   = "canViewUser"
	PermEditUser   = "canEditUser"
	PermDeleteUser = "canDeleteUser"
)

// Book is a catalogue entry.
type Book struct {
	ID              uuid.UUID `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	PublicationYear int       `json:"publicationYear"`
	Price           float64   `json:"price"`
	Description     string    `json:"description,omitempty"`
}

// User represents an account. Password holds the bcrypt hash, never plaintext.
type User struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"` // unique, lower-case
	Password  string    `json:"password"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// Role is a named bundle of permissions that may inherit other roles.
type Role struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	Inherits    []string  `json:"inherits,omitempty"`
}

// Edit is an append-only audit record of a mutating operation.
type Edit struct {
	ID         uuid.UUID `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Op         string    `json:"op"`
	Collection string    `json:"collection"`
	Target     uuid.UUID `json:"target"`
	Auth       Identity  `json:"auth"`
}

// Identity is the authenticated actor carried by a session token.
type Identity struct {
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	Roles       []string  `json:"roles"`
	Permissions []string  `json:"permissions"`
}

// Can reports whether the identity holds the permission.
func (i Identity) Can(perm string) bool {
	for _, p := range i.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// PermissionSet is a deduplicated, unordered set of permission names.
type PermissionSet map[string]struct{}

// Add inserts permissions into the set.
func (s PermissionSet) Add(perms ...string) {
	for _, p := range perms {
		s[p] = struct{}{}
	}
}

// Slice returns the permissions sorted by name.
func (s PermissionSet) Slice() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Tokens describes an issued session token.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Page selects a window of a sorted result set. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Skip returns the number of documents preceding the page, saturating at
// math.MaxInt.
func (p Page) Skip() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

// BookQuery filters, sorts and paginates the book list.
type BookQuery struct {
	Keywords string
	Genre    string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Page     Page
}

// UserQuery filters, sorts and paginates the user list.
type UserQuery struct {
	Keywords string
	Role     string
	SortBy   string
	Page     Page
}
