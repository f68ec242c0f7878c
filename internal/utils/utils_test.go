package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Lotus Villas - DLF Phase 4":    "lotus-villas-dlf-phase-4",
		"  Co-Living PG in Sushant Lok ": "co-living-pg-in-sushant-lok",
		"Studio @ Cyberhub!!":           "studio-cyberhub",
		"___":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"9876543210", "+91 98765 43210", "91-9876543210", "(987) 654-3210", "6000000000"}
	for _, p := range valid {
		assert.True(t, ValidatePhone(p), p)
	}
	invalid := []string{"5876543210", "98765", "98765432101", "abcdefghij", ""}
	for _, p := range invalid {
		assert.False(t, ValidatePhone(p), p)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "9876543210", NormalizePhone("+91 98765-43210"))
	assert.Equal(t, "9876543210", NormalizePhone("9876543210"))
	assert.Equal(t, "9123456789", NormalizePhone("(912) 345 6789"))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.True(t, ValidatePasswordStrength("Secure123"))
	assert.False(t, ValidatePasswordStrength("short1A"))
	assert.False(t, ValidatePasswordStrength("alllowercase1"))
	assert.False(t, ValidatePasswordStrength("ALLUPPERCASE1"))
	assert.False(t, ValidatePasswordStrength("NoDigitsHere"))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secure123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("Secure123", hash))
	assert.False(t, CheckPasswordHash("secure123", hash))
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"₹26,000/month": 26000,
		"₹1.5L":         150000,
		"45K":           45000,
		"12000":         12000,
		"Rs. 9,500":     9500,
	}
	for in, want := range cases {
		got, err := ParsePrice(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 0.001, in)
	}

	_, err := ParsePrice("On request")
	assert.ErrorIs(t, err, ErrBadPrice)
	_, err = ParsePrice("₹")
	assert.ErrorIs(t, err, ErrBadPrice)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Rahul Sharma", SanitizeText("<b>Rahul</b> Sharma"))
	assert.Equal(t, "Hi", SanitizeText("<script>alert(1)</script>Hi"))
	assert.Equal(t, "Looking for a 2BHK", SanitizeText("  Looking for a 2BHK "))
	assert.Equal(t, "D'Souza", SanitizeText("D'Souza"))
	assert.Equal(t, `Budget < 30k & "quiet"`, SanitizeText(`Budget < 30k & "quiet"`))
	assert.Equal(t, "&lt;b&gt;", SanitizeText("&lt;b&gt;"), "escaped input stays inert text")
}

func TestHandleAppError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("wrap: %w", ErrInvalidPhone), http.StatusBadRequest, ErrCodeValidation},
		{ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{NewAppError(http.StatusTooManyRequests, ErrCodeRateLimitExceeded, "slow down", ErrRateLimitExceeded), http.StatusTooManyRequests, ErrCodeRateLimitExceeded},
		{errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		HandleAppError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Code)
	}
}
