package server

import (
	"net/http"
	"strings"
	"time"
)

const (
	tokenParam  = "token"
	tokenCookie = "token"
	tokenMaxAge = 7 * 24 * time.Hour
)

// credential returns the caller's token from the query string, the token
// cookie or a Bearer header, in that order
func credential(r *http.Request) string {
	if token := r.URL.Query().Get(tokenParam); token != "" {
		return token
	}
	if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// setTokenCookie persists the token client-side. The page script reads it,
// so it is not HttpOnly.
func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenMaxAge.Seconds()),
		Expires:  time.Now().Add(tokenMaxAge),
		HttpOnly: false,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
