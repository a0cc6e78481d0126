package service

import (
	"math"

	"github.com/and161185/bookstore-api/internal/model"
)

// Pagination defaults and bounds for list operations.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 5
	MaxPageSize       = 100

	// MaxPageNumber keeps the skip count of any page within int.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// clampPage keeps both page number and size positive and caps both.
func clampPage(p model.Page) model.Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 {
		p.Size = 1
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}
