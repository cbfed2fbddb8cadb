package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		query      string
		page, size int
		offset     int
	}{
		{"", 1, DefaultPageSize, 0},
		{"page=3&page_size=10", 3, 10, 20},
		{"page=0&page_size=-4", 1, DefaultPageSize, 0},
		{"page=x&page_size=500", 1, MaxPageSize, 0},
		{"page=461168601842738792&page_size=20", MaxPage, 20, (MaxPage - 1) * 20},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/admin/workflow-requests?"+tt.query, nil)
		got := ParsePageRequest(r)
		assert.Equal(t, tt.page, got.Page, tt.query)
		assert.Equal(t, tt.size, got.PageSize, tt.query)
		assert.Equal(t, tt.offset, got.Offset(), tt.query)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, PageRequest{Page: 2, PageSize: 2}, 5)
	assert.Equal(t, 3, p.TotalPages)

	empty := NewPage[int](nil, PageRequest{Page: 1, PageSize: 20}, 0)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestWriteAnyError(t *testing.T) {
	rr := httptest.NewRecorder()
	_ = WriteAnyError(rr, apperrors.NotFound("Agent"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Contains(t, rr.Body.String(), `"code":"NOT_FOUND"`)

	rr = httptest.NewRecorder()
	_ = WriteAnyError(rr, errors.New("pq: relation does not exist"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "relation")
}
