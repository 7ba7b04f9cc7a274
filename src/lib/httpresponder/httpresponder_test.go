package httpresponder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	SendErrorResponse(rr, req, "Invalid request", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Invalid request","code":400}`, rr.Body.String())
}

func TestSendSuccessResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	SendSuccessResponse(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, "a@b.co", dst.Email)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	assert.Error(t, DecodeJSON(httptest.NewRecorder(), req, &dst))
}

func TestReadBodyLimit(t *testing.T) {
	big := strings.Repeat("a", MaxBodyBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	_, err := ReadBody(httptest.NewRecorder(), req)
	assert.Error(t, err)
}
