package httpapi

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/service"
)

// Accepted sortBy values; the first entry is the default.
var (
	BookSorts = []string{"author", "price", "year"}
	UserSorts = []string{"fullName", "email", "newest", "oldest"}
)

func parseBookQuery(v url.Values) (model.BookQuery, error) {
	q := model.BookQuery{
		Keywords: strings.TrimSpace(v.Get("keywords")),
		Genre:    strings.ToLower(strings.TrimSpace(v.Get("genre"))),
	}
	var err error
	if q.MinPrice, err = floatParam(v, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = floatParam(v, "maxPrice"); err != nil {
		return q, err
	}
	if q.SortBy, err = sortParam(v, BookSorts); err != nil {
		return q, err
	}
	q.Page = pageParams(v)
	return q, nil
}

func parseUserQuery(v url.Values) (model.UserQuery, error) {
	q := model.UserQuery{
		Keywords: strings.TrimSpace(v.Get("keywords")),
		Role:     strings.TrimSpace(v.Get("role")),
	}
	var err error
	if q.SortBy, err = sortParam(v, UserSorts); err != nil {
		return q, err
	}
	q.Page = pageParams(v)
	return q, nil
}

func floatParam(v url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return nil, nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, failf(errs.ErrValidation, "invalid %s: %s", name, raw)
	}
	return &f, nil
}

func sortParam(v url.Values, allowed []string) (string, error) {
	raw := strings.TrimSpace(v.Get("sortBy"))
	if raw == "" {
		return allowed[0], nil
	}
	if !slices.Contains(allowed, raw) {
		return "", failf(errs.ErrValidation, "invalid sortBy: %s (allowed: %s)", raw, strings.Join(allowed, ", "))
	}
	return raw, nil
}

// pageParams falls back to the defaults for absent or unparsable values;
// the services clamp what remains. Values are always read as decimal.
func pageParams(v url.Values) model.Page {
	p := model.Page{Number: service.DefaultPageNumber, Size: service.DefaultPageSize}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get("pageNumber"))); err == nil {
		p.Number = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get("pageSize"))); err == nil {
		p.Size = n
	}
	return p
}
