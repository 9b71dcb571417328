// Package shared contains common domain types, errors and value objects
// that are used across all domain packages.
package shared

import "fmt"

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Object
// ═══════════════════════════════════════════════════════════════════════════

// ID is a store-generated entity identifier.
type ID int64

// IsValid checks if the ID is valid (positive number).
func (id ID) IsValid() bool {
	return id > 0
}

// Int64 returns the underlying int64 value.
func (id ID) Int64() int64 {
	return int64(id)
}

// String returns the string representation.
func (id ID) String() string {
	return fmt.Sprintf("%d", id)
}

// ═══════════════════════════════════════════════════════════════════════════
// Page Value Object (skip/limit pagination)
// ═══════════════════════════════════════════════════════════════════════════

// DefaultPageLimit is applied when the caller does not specify a limit.
const DefaultPageLimit = 100

// Page describes a window over an id-ordered list.
type Page struct {
	Skip  int
	Limit int
}

// DefaultPage returns the first page with the default limit.
func DefaultPage() Page {
	return Page{Skip: 0, Limit: DefaultPageLimit}
}

// NewPage creates a validated page.
func NewPage(skip, limit int) (Page, error) {
	p := Page{Skip: skip, Limit: limit}
	if err := p.Validate(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// Validate checks skip >= 0 and limit > 0.
func (p Page) Validate() error {
	if p.Skip < 0 {
		return ErrInvalidSkip
	}
	if p.Limit <= 0 {
		return ErrInvalidLimit
	}
	return nil
}

// Bounds returns the slice bounds [start, end) of the page over n items.
func (p Page) Bounds(n int) (int, int) {
	start := p.Skip
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n || end < start {
		end = n
	}
	return start, end
}
