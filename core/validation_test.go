package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRequest() *Request {
	return &Request{
		TenantID:  "t1",
		UserID:    "u123",
		SessionID: "s-1",
		Query:     "Is paneer okay for dinner?",
		Locale:    "en-IN",
	}
}

func TestValidateRequest(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(validRequest()))
	})

	t.Run("nil request", func(t *testing.T) {
		err := ValidateRequest(nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing tenant", func(t *testing.T) {
		req := validRequest()
		req.TenantID = ""
		err := ValidateRequest(req)
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrEmptyTenant)
	})

	t.Run("missing user", func(t *testing.T) {
		req := validRequest()
		req.UserID = ""
		assert.ErrorIs(t, ValidateRequest(req), ErrEmptyUser)
	})

	t.Run("missing session", func(t *testing.T) {
		req := validRequest()
		req.SessionID = ""
		assert.ErrorIs(t, ValidateRequest(req), ErrEmptySession)
	})

	t.Run("blank query", func(t *testing.T) {
		req := validRequest()
		req.Query = "   \t\n"
		assert.ErrorIs(t, ValidateRequest(req), ErrEmptyQuery)
	})

	t.Run("query too long", func(t *testing.T) {
		req := validRequest()
		req.Query = strings.Repeat("a", MaxQueryLength+1)
		assert.ErrorIs(t, ValidateRequest(req), ErrQueryTooLong)
	})

	t.Run("query at limit", func(t *testing.T) {
		req := validRequest()
		req.Query = strings.Repeat("a", MaxQueryLength)
		assert.NoError(t, ValidateRequest(req))
	})
}

func TestValidateChunk(t *testing.T) {
	t.Run("valid chunk", func(t *testing.T) {
		chunk := &VaultChunk{TenantID: "t1", UserID: "u1", Text: "hello"}
		assert.NoError(t, ValidateChunk(chunk))
	})

	t.Run("nil chunk", func(t *testing.T) {
		assert.ErrorIs(t, ValidateChunk(nil), ErrValidation)
	})

	t.Run("missing isolation keys", func(t *testing.T) {
		assert.ErrorIs(t, ValidateChunk(&VaultChunk{UserID: "u1", Text: "x"}), ErrEmptyTenant)
		assert.ErrorIs(t, ValidateChunk(&VaultChunk{TenantID: "t1", Text: "x"}), ErrEmptyUser)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.ErrorIs(t, ValidateChunk(&VaultChunk{TenantID: "t1", UserID: "u1"}), ErrValidation)
	})
}
