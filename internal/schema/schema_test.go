package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/bookstore-api/internal/errs"
)

func validBook() map[string]any {
	return map[string]any{
		"isbn":            "9780306406157",
		"title":           "  Dune ",
		"author":          "Frank Herbert",
		"genre":           "Science-Fiction",
		"publicationYear": float64(1965),
		"price":           float64(9.99),
		"description":     "Spice.",
	}
}

func violationFields(t *testing.T, err error) []string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err)
	require.ErrorIs(t, err, errs.ErrValidation)
	fields := make([]string, 0, len(ve.Violations))
	for _, v := range ve.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestBookCreate_AcceptsAndCoerces(t *testing.T) {
	t.Parallel()

	doc, err := BookCreate.Validate(validBook())
	require.NoError(t, err)
	assert.Equal(t, "Dune", doc["title"])
	assert.Equal(t, "science-fiction", doc["genre"])
	assert.Equal(t, 1965, doc["publicationYear"])
	assert.Equal(t, 9.99, doc["price"])

	in := validBook()
	delete(in, "description")
	in["price"] = "19.99"
	in["publicationYear"] = "2001"
	doc, err = BookCreate.Validate(in)
	require.NoError(t, err)
	assert.Equal(t, 19.99, doc["price"])
	assert.Equal(t, 2001, doc["publicationYear"])
	_, hasDesc := doc["description"]
	assert.False(t, hasDesc)
}

func TestBookCreate_RejectsEveryViolatedField(t *testing.T) {
	t.Parallel()

	in := validBook()
	delete(in, "title")
	in["price"] = float64(-1)
	in["genre"] = "cooking"
	in["publicationYear"] = float64(1899)
	in["isbn"] = "123"
	in["colour"] = "red"

	_, err := BookCreate.Validate(in)
	assert.Equal(t, []string{"isbn", "title", "genre", "publicationYear", "price", "colour"}, violationFields(t, err))
}

func TestBookCreate_TypeMismatchNotDropped(t *testing.T) {
	t.Parallel()

	cases := map[string]any{
		"price":           true,
		"publicationYear": 1999.5,
		"title":           float64(42),
		"author":          nil,
	}
	for field, bad := range cases {
		in := validBook()
		in[field] = bad
		_, err := BookCreate.Validate(in)
		assert.Equal(t, []string{field}, violationFields(t, err), "field %s", field)
	}

	in := validBook()
	in["price"] = "nineteen"
	_, err := BookCreate.Validate(in)
	assert.Equal(t, []string{"price"}, violationFields(t, err))

	in = validBook()
	in["price"] = "NaN"
	_, err = BookCreate.Validate(in)
	assert.Equal(t, []string{"price"}, violationFields(t, err))
}

func TestBookCreate_RequiredEmptyString(t *testing.T) {
	t.Parallel()

	in := validBook()
	in["author"] = "   "
	_, err := BookCreate.Validate(in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Violations, 1)
	assert.Equal(t, Violation{Field: "author", Message: "is required"}, ve.Violations[0])
}

func TestBookUpdate_SharesRulesButNothingRequired(t *testing.T) {
	t.Parallel()

	require.Equal(t, len(BookCreate.Fields), len(BookUpdate.Fields))
	for i := range BookCreate.Fields {
		c, u := BookCreate.Fields[i], BookUpdate.Fields[i]
		assert.Equal(t, c.Name, u.Name)
		assert.Equal(t, c.Rules, u.Rules)
		assert.Equal(t, c.Kind, u.Kind)
		assert.False(t, u.Required)
	}

	doc, err := BookUpdate.Validate(map[string]any{"price": "19.99"})
	require.NoError(t, err)
	assert.Equal(t, Document{"price": 19.99}, doc)

	_, err = BookUpdate.Validate(map[string]any{"price": float64(-3)})
	assert.Equal(t, []string{"price"}, violationFields(t, err))

	_, err = BookUpdate.Validate(map[string]any{})
	assert.Equal(t, []string{"body"}, violationFields(t, err))

	_, err = BookUpdate.Validate(map[string]any{"id": "x"})
	assert.Equal(t, []string{"id"}, violationFields(t, err))
}

func TestUserRegister(t *testing.T) {
	t.Parallel()

	doc, err := UserRegister.Validate(map[string]any{
		"fullName": "Ada",
		"email":    " Ada@X.com ",
		"password": "longenough1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", doc["email"])
	assert.Equal(t, "longenough1", doc["password"])

	_, err = UserRegister.Validate(map[string]any{
		"fullName": "Ada",
		"email":    "not-an-email",
		"password": "short",
		"roles":    []any{"admin"},
	})
	assert.Equal(t, []string{"email", "password", "roles"}, violationFields(t, err))
}

func TestUserUpdate_Roles(t *testing.T) {
	t.Parallel()

	doc, err := UserUpdate.Validate(map[string]any{"roles": []any{"employee", " admin"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"employee", "admin"}, doc["roles"])

	_, err = UserUpdate.Validate(map[string]any{"roles": []any{}})
	assert.Equal(t, []string{"roles"}, violationFields(t, err))

	_, err = UserUpdate.Validate(map[string]any{"roles": []any{"ok", float64(3)}})
	assert.Equal(t, []string{"roles"}, violationFields(t, err))

	_, err = UserUpdate.Validate(map[string]any{"roles": "admin"})
	assert.Equal(t, []string{"roles"}, violationFields(t, err))
}

func TestUserUpdateSelf_OnlyOwnFields(t *testing.T) {
	t.Parallel()

	_, err := UserUpdateSelf.Validate(map[string]any{"roles": []any{"admin"}})
	assert.Equal(t, []string{"roles"}, violationFields(t, err))

	doc, err := UserUpdateSelf.Validate(map[string]any{"fullName": "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, Document{"fullName": "Ada L."}, doc)
}

func TestUserLogin_PasswordKeepsWhitespace(t *testing.T) {
	t.Parallel()

	doc, err := UserLogin.Validate(map[string]any{"email": "a@b.co", "password": " pw "})
	require.NoError(t, err)
	assert.Equal(t, " pw ", doc["password"])

	_, err = UserLogin.Validate(map[string]any{"email": "a@b.co"})
	assert.Equal(t, []string{"password"}, violationFields(t, err))
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Schema: "book", Violations: []Violation{
		{Field: "price", Message: "must be greater than or equal to 0"},
		{Field: "title", Message: "is required"},
	}}
	assert.Equal(t, "book: price must be greater than or equal to 0; title is required", err.Error())
}
