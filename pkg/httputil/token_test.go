package httputil

import (
	"net/http/httptest"
	"testing"
)

func TestGetTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws?token=q", nil)
	if tok, err := GetTokenFromRequest(r); err != nil || tok != "q" {
		t.Fatalf("query token: %q, %v", tok, err)
	}

	r.Header.Set("Authorization", "Bearer h")
	if tok, err := GetTokenFromRequest(r); err != nil || tok != "h" {
		t.Fatalf("header token should win: %q, %v", tok, err)
	}

	r = httptest.NewRequest("GET", "/ws", nil)
	if _, err := GetTokenFromRequest(r); err == nil {
		t.Fatal("expected error without a token")
	}
}
