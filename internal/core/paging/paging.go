// Package paging computes page windows and pagination metadata for listings
package paging

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query keys read by Request
const (
	KeyPage = "page"
	KeySize = "size"
)

// Paginator holds the configured page size bounds
type Paginator struct {
	DefaultSize int
	MaxSize     int
}

// Request is a 1-based page index and a page size
type Request struct {
	Page int
	Size int
}

// Meta is the pagination metadata reported with a listing
type Meta struct {
	Page       int
	Size       int
	TotalPages int
	TotalItems int
}

// New returns a Paginator with sane bounds
func New(defaultSize, maxSize int) Paginator {
	if maxSize < 1 {
		maxSize = 1
	}
	if defaultSize < 1 || defaultSize > maxSize {
		defaultSize = maxSize
	}
	return Paginator{DefaultSize: defaultSize, MaxSize: maxSize}
}

// Request reads page and size from q, clamped
// Missing or non-numeric values fall back to page 1 and the default size
func (p Paginator) Request(q url.Values) Request {
	r := Request{Page: 1, Size: p.DefaultSize}
	if n, ok := atoi(q.Get(KeyPage)); ok {
		r.Page = n
	}
	if n, ok := atoi(q.Get(KeySize)); ok {
		r.Size = n
	}
	return p.Clamp(r)
}

// Clamp bounds size into [1, MaxSize] and page into [1, math.MaxInt/size],
// so Offset never overflows
func (p Paginator) Clamp(r Request) Request {
	hi := p.MaxSize
	if hi < 1 {
		hi = 1
	}
	if r.Size < 1 {
		r.Size = 1
	}
	if r.Size > hi {
		r.Size = hi
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if last := math.MaxInt / r.Size; r.Page > last {
		r.Page = last
	}
	return r
}

// Compute derives metadata for r given the total matching items
// A page past the end is not an error; TotalPages still reports the truth
func (p Paginator) Compute(r Request, totalItems int) Meta {
	r = p.Clamp(r)
	if totalItems < 0 {
		totalItems = 0
	}
	return Meta{
		Page:       r.Page,
		Size:       r.Size,
		TotalPages: TotalPages(totalItems, r.Size),
		TotalItems: totalItems,
	}
}

// TotalPages is ceil(total/size), 0 when total is 0
func TotalPages(total, size int) int {
	if total <= 0 || size < 1 {
		return 0
	}
	return (total + size - 1) / size
}

// Offset is the number of items before this page, saturating at math.MaxInt
func (r Request) Offset() int {
	if r.Page < 1 || r.Size < 1 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return (r.Page - 1) * r.Size
}

// Limit is the page size
func (r Request) Limit() int { return r.Size }

func atoi(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
