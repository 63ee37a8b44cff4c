package httputil

import (
	"errors"
	"net/http"
	"strings"
)

// GetTokenFromRequest reads a bearer token from the Authorization header,
// falling back to the "token" query parameter since browsers cannot set
// headers on a websocket upgrade.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return token, nil
		}
		return authHeader, nil
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", errors.New("no auth token found in header or query")
}
