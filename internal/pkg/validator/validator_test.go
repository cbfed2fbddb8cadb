package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3,max=64,handle"`
	Email    string `json:"email" validate:"required,email"`
	Title    string `json:"title" validate:"required,notblank,max=20"`
	Priority int    `json:"priority" validate:"omitempty,min=1,max=10"`
	Internal string `json:"-" validate:"omitempty,max=2"`
}

func valid() signup {
	return signup{Username: "ada.lovelace", Email: "ada@example.com", Title: "Invoice bot"}
}

func TestValidate_Passes(t *testing.T) {
	assert.Nil(t, New().Validate(valid()))
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*signup)
		field   string
		tag     string
		message string
	}{
		{"blank title", func(s *signup) { s.Title = "   " }, "title", "notblank", "title is required"},
		{"bad handle", func(s *signup) { s.Username = "ada lovelace" }, "username", "handle",
			"username may only contain letters, digits, dots, dashes and underscores"},
		{"short handle", func(s *signup) { s.Username = "ad" }, "username", "min", "username must be at least 3 characters long"},
		{"bad email", func(s *signup) { s.Email = "nope" }, "email", "email", "email must be a valid email address"},
		{"priority too high", func(s *signup) { s.Priority = 11 }, "priority", "max", "priority must be at most 10"},
	}
	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			errs := v.Validate(in)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.tag, errs[0].Tag)
			assert.Equal(t, tt.message, errs[0].Message)
		})
	}
}

func TestValidate_NonStruct(t *testing.T) {
	errs := New().Validate("not a struct")
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid", errs[0].Tag)
}
