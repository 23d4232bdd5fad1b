package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestAuthenticatedUserIsStoredInContext(t *testing.T) {
	is := is.New(t)

	var user User

	handler := testHandler(t, func(w http.ResponseWriter, r *http.Request) {
		user, _ = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	res := serve(handler, http.MethodGet, "/api/v0/alerts", token(map[string]any{"sub": "kofi", "roles": []string{"resident"}}))

	is.Equal(http.StatusOK, res.Code)
	is.Equal("kofi", user.ID)
	is.True(user.HasRole(RoleResident))
	is.True(!user.HasRole(RoleOperator))
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	is := is.New(t)

	handler := testHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	res := serve(handler, http.MethodGet, "/api/v0/alerts", "")
	is.Equal(http.StatusUnauthorized, res.Code)
}

func TestTokenWithoutSubjectIsUnauthorized(t *testing.T) {
	is := is.New(t)

	handler := testHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	res := serve(handler, http.MethodGet, "/api/v0/alerts", token(map[string]any{"roles": []string{"resident"}}))
	is.Equal(http.StatusUnauthorized, res.Code)
}

func TestRequireRole(t *testing.T) {
	is := is.New(t)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	handler := RequireRole(RoleOperator)(ok)

	req := httptest.NewRequest(http.MethodPost, "/api/v0/alerts", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req.WithContext(WithUser(req.Context(), User{ID: "kofi", Roles: []Role{RoleResident}})))
	is.Equal(http.StatusForbidden, res.Code)

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req.WithContext(WithUser(req.Context(), User{ID: "nadia", Roles: []Role{RoleOperator}})))
	is.Equal(http.StatusCreated, res.Code)
}

func testHandler(t *testing.T, next http.HandlerFunc) http.Handler {
	is := is.New(t)

	authenticator, err := NewAuthenticator(context.Background(), zerolog.Nop(), bytes.NewBufferString(policies))
	is.NoErr(err)

	return authenticator(next)
}

func serve(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

// token builds an unsigned token, the test policy only decodes it.
func token(claims map[string]any) string {
	enc := base64.RawURLEncoding
	header, _ := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	payload, _ := json.Marshal(claims)
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

const policies string = `
package example.authz

default allow = false

allow = response {
	[_, payload, _] := io.jwt.decode(input.token)
	payload.sub
	response := {
		"user_id": payload.sub,
		"roles": object.get(payload, "roles", []),
	}
}
`
