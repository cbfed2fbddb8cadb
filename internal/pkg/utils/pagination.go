package utils

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps Offset from overflowing at any page size.
	MaxPage = math.MaxInt / MaxPageSize
)

// PageRequest is a 1-based page and its size, read from ?page=&page_size=.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset is the number of items before this page.
func (p PageRequest) Offset() int { return (p.Page - 1) * p.PageSize }

// Page is one page of a listing in the success envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// ParsePageRequest clamps malformed or out-of-range values to the defaults.
func ParsePageRequest(r *http.Request) PageRequest {
	q := r.URL.Query()
	p := PageRequest{
		Page:     queryInt(q.Get("page"), 1),
		PageSize: queryInt(q.Get("page_size"), DefaultPageSize),
	}
	switch {
	case p.Page < 1:
		p.Page = 1
	case p.Page > MaxPage:
		p.Page = MaxPage
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// NewPage wraps items for req. A nil slice is sent as [].
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: total,
		TotalPages: (total + req.PageSize - 1) / req.PageSize,
	}
}

func queryInt(raw string, fallback int) int {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return fallback
}
