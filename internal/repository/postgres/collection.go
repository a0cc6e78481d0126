package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/bookstore-api/internal/errs"
)

// Doc is a stored document: its key and raw JSON body.
type Doc struct {
	ID   uuid.UUID
	Body []byte
}

// Match selects documents whose field equals (or, in Contains, whose array
// field holds) Value.
type Match struct {
	Field string
	Value string
}

// Range bounds a numeric field; nil bounds are open.
type Range struct {
	Field string
	Gte   *float64
	Lte   *float64
}

// Filter is a conjunction of optional criteria.
type Filter struct {
	Text       string   // full-text query over TextFields
	TextFields []string // must match the collection's text index
	Equal      []Match
	Contains   []Match
	Ranges     []Range
}

// SortKind selects how the sort key is compared.
type SortKind int

const (
	SortText SortKind = iota
	SortNumeric
	SortCreated
)

// Sort orders results; ties are broken by id.
type Sort struct {
	Field string
	Kind  SortKind
	Desc  bool
}

// InsertResult reports the outcome of InsertOne.
type InsertResult struct {
	Acknowledged bool
	InsertedID   uuid.UUID
}

// UpdateResult reports the outcome of UpdateOne.
type UpdateResult struct{ ModifiedCount int64 }

// DeleteResult reports the outcome of DeleteOne.
type DeleteResult struct{ DeletedCount int64 }

var fieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Collection is a table of (id uuid, doc jsonb, created_at) rows.
type Collection struct {
	db    *DB
	name  string
	table string
}

// Collection returns a handle for the named collection.
func (db *DB) Collection(name string) *Collection {
	return &Collection{db: db, name: name, table: pgx.Identifier{name}.Sanitize()}
}

// FindMany returns documents matching f ordered by s, skipping skip and
// returning at most limit documents.
func (c *Collection) FindMany(ctx context.Context, f Filter, s Sort, skip, limit int) ([]Doc, error) {
	where, args, err := f.build()
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", c.name, err)
	}
	order, err := s.build()
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", c.name, err)
	}
	args = append(args, skip, limit)
	q := "SELECT id, doc FROM " + c.table + where + " ORDER BY " + order +
		" OFFSET $" + strconv.Itoa(len(args)-1) + " LIMIT $" + strconv.Itoa(len(args))

	rows, err := c.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", c.name, err)
	}
	defer rows.Close()

	out := make([]Doc, 0, limit)
	for rows.Next() {
		var d Doc
		if err := rows.Scan(&d.ID, &d.Body); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", c.name, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", c.name, err)
	}
	return out, nil
}

// FindOne returns the first document matching f or errs.ErrNotFound.
func (c *Collection) FindOne(ctx context.Context, f Filter) (Doc, error) {
	where, args, err := f.build()
	if err != nil {
		return Doc{}, fmt.Errorf("%s: find one: %w", c.name, err)
	}
	q := "SELECT id, doc FROM " + c.table + where + " LIMIT 1"
	return c.scanOne(c.db.Pool.QueryRow(ctx, q, args...))
}

// FindByID returns the document with the given key or errs.ErrNotFound.
func (c *Collection) FindByID(ctx context.Context, id uuid.UUID) (Doc, error) {
	q := "SELECT id, doc FROM " + c.table + " WHERE id = $1"
	return c.scanOne(c.db.Pool.QueryRow(ctx, q, id))
}

func (c *Collection) scanOne(row pgx.Row) (Doc, error) {
	var d Doc
	if err := row.Scan(&d.ID, &d.Body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Doc{}, errs.ErrNotFound
		}
		return Doc{}, fmt.Errorf("%s: find one: %w", c.name, err)
	}
	return d, nil
}

// InsertOne stores v as a new document under id.
func (c *Collection) InsertOne(ctx context.Context, id uuid.UUID, v any) (InsertResult, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return InsertResult{}, fmt.Errorf("%s: encode: %w", c.name, err)
	}
	q := "INSERT INTO " + c.table + " (id, doc) VALUES ($1, $2::jsonb)"
	tag, err := c.db.Pool.Exec(ctx, q, id, body)
	if err != nil {
		if isUniqueViolation(err) {
			return InsertResult{}, errs.ErrAlreadyExists
		}
		return InsertResult{}, fmt.Errorf("%s: insert: %w", c.name, err)
	}
	return InsertResult{Acknowledged: tag.RowsAffected() == 1, InsertedID: id}, nil
}

// UpdateOne merges patch into the document (patch keys override existing
// ones). A document that the patch would not change is not counted.
func (c *Collection) UpdateOne(ctx context.Context, id uuid.UUID, patch map[string]any) (UpdateResult, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("%s: encode: %w", c.name, err)
	}
	q := "UPDATE " + c.table + " SET doc = doc || $2::jsonb WHERE id = $1 AND doc <> (doc || $2::jsonb)"
	tag, err := c.db.Pool.Exec(ctx, q, id, body)
	if err != nil {
		if isUniqueViolation(err) {
			return UpdateResult{}, errs.ErrAlreadyExists
		}
		return UpdateResult{}, fmt.Errorf("%s: update: %w", c.name, err)
	}
	return UpdateResult{ModifiedCount: tag.RowsAffected()}, nil
}

// DeleteOne removes the document with the given key.
func (c *Collection) DeleteOne(ctx context.Context, id uuid.UUID) (DeleteResult, error) {
	q := "DELETE FROM " + c.table + " WHERE id = $1"
	tag, err := c.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("%s: delete: %w", c.name, err)
	}
	return DeleteResult{DeletedCount: tag.RowsAffected()}, nil
}

// TextVector renders the tsvector expression for fields; the migration
// creating the matching GIN index must use the same expression.
func TextVector(fields []string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = "coalesce(doc->>'" + f + "', '')"
	}
	return "to_tsvector('english', " + strings.Join(parts, " || ' ' || ") + ")"
}

func (f Filter) build() (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Text != "" {
		for _, name := range f.TextFields {
			if !fieldName.MatchString(name) {
				return "", nil, fmt.Errorf("bad field %q", name)
			}
		}
		if len(f.TextFields) == 0 {
			return "", nil, errors.New("text search without fields")
		}
		conds = append(conds, TextVector(f.TextFields)+" @@ plainto_tsquery('english', "+next(f.Text)+")")
	}
	for _, m := range f.Equal {
		if !fieldName.MatchString(m.Field) {
			return "", nil, fmt.Errorf("bad field %q", m.Field)
		}
		conds = append(conds, "doc->>'"+m.Field+"' = "+next(m.Value))
	}
	for _, m := range f.Contains {
		if !fieldName.MatchString(m.Field) {
			return "", nil, fmt.Errorf("bad field %q", m.Field)
		}
		conds = append(conds, "doc->'"+m.Field+"' ? "+next(m.Value))
	}
	for _, r := range f.Ranges {
		if !fieldName.MatchString(r.Field) {
			return "", nil, fmt.Errorf("bad field %q", r.Field)
		}
		if r.Gte != nil {
			conds = append(conds, "(doc->>'"+r.Field+"')::numeric >= "+next(*r.Gte))
		}
		if r.Lte != nil {
			conds = append(conds, "(doc->>'"+r.Field+"')::numeric <= "+next(*r.Lte))
		}
	}

	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (s Sort) build() (string, error) {
	var expr string
	switch s.Kind {
	case SortCreated:
		expr = "created_at"
	case SortNumeric, SortText:
		if !fieldName.MatchString(s.Field) {
			return "", fmt.Errorf("bad sort field %q", s.Field)
		}
		expr = "doc->>'" + s.Field + "'"
		if s.Kind == SortNumeric {
			expr = "(" + expr + ")::numeric"
		}
	default:
		return "", fmt.Errorf("bad sort kind %d", s.Kind)
	}
	dir := " ASC"
	if s.Desc {
		dir = " DESC"
	}
	return expr + dir + ", id ASC", nil
}

func decode[T any](d Doc) (T, error) {
	var v T
	if err := json.Unmarshal(d.Body, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", d.ID, err)
	}
	return v, nil
}
