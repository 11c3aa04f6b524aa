package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadBody_IsRepeatable(t *testing.T) {
	rr := httptest.NewRecorder()
	rr.WriteHeader(http.StatusBadRequest)
	_, _ = rr.Body.WriteString(`{"error":"invalid_input","message":"Email is already in use"}`)

	// Asserting on the envelope must not drain the body for later reads.
	AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	assert.Contains(t, rr.Body.String(), "Email is already in use")

	first := ReadBody(t, rr)
	second := ReadBody(t, rr)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, second)
}

func TestUnmarshalResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	_, _ = rr.Body.WriteString(`{"message":"ok"}`)

	resp := UnmarshalResponse[struct {
		Message string `json:"message"`
	}](t, rr)
	assert.Equal(t, "ok", resp.Message)
	assert.Contains(t, rr.Body.String(), "ok")
}
