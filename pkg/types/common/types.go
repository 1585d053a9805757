// Package common defines shared value types used across all layers of the
// LexDocket platform.
package common

import (
	"time"

	"github.com/google/uuid"
)

// ─────────────────────────────────────────────────────────────────────────────
// Identifiers
// ─────────────────────────────────────────────────────────────────────────────

// ID is the canonical entity identifier used across the platform.
type ID string

// NewID generates a new random unique identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// IsEmpty reports whether the identifier is unset.
func (id ID) IsEmpty() bool {
	return id == ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Pagination
// ─────────────────────────────────────────────────────────────────────────────

// Pagination carries page-based listing parameters for repository queries.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// Normalize clamps pagination parameters into their valid ranges.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Offset returns the row offset corresponding to the page parameters.
func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the row limit corresponding to the page parameters.
func (p Pagination) Limit() int {
	return p.Normalize().PageSize
}

// PagedResult wraps a listing result together with its total row count.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Date ranges
// ─────────────────────────────────────────────────────────────────────────────

// DateRange is an inclusive calendar date interval.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether d falls within the range, inclusive of both ends.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// IsValid reports whether From does not come after To.
func (r DateRange) IsValid() bool {
	return !r.From.After(r.To)
}
