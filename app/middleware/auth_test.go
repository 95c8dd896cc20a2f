package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogapi/app/auth"
	"blogapi/app/models"
	"blogapi/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string]int

func (s stubTokens) Parse(token string) (int, error) {
	id, ok := s[token]
	if !ok {
		return 0, auth.ErrInvalidToken
	}
	return id, nil
}

type stubUsers map[int]*models.User

func (s stubUsers) GetUser(id int) (*models.User, error) {
	if id == 500 {
		return nil, errors.New("storage down")
	}
	user, ok := s[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func TestRequireAuth(t *testing.T) {
	tokens := stubTokens{"good": 1, "orphan": 2, "broken": 500}
	users := stubUsers{1: {ID: 1, Username: "alice"}}

	handler := RequireAuth(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(user.Username))
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantError  string
	}{
		{"valid token", "Bearer good", http.StatusOK, "alice", ""},
		{"no header", "", http.StatusUnauthorized, "", auth.ErrMissingToken.Error()},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "", auth.ErrInvalidToken.Error()},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, "", auth.ErrInvalidToken.Error()},
		{"deleted user", "Bearer orphan", http.StatusUnauthorized, "", auth.ErrInvalidToken.Error()},
		{"lookup failure", "Bearer broken", http.StatusInternalServerError, "", "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError == "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestUserFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, ok := UserFromContext(req.Context())
	assert.False(t, ok)
}
