package middleware

import (
	"context"
	"errors"
	"net/http"

	"blogapi/app/auth"
	"blogapi/app/models"
	"blogapi/app/repositories"
)

// TokenParser resolves a bearer token to a user id.
type TokenParser interface {
	Parse(token string) (int, error)
}

// UserLookup loads the user a token was issued for.
type UserLookup interface {
	GetUser(id int) (*models.User, error)
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// stores the authenticated user in the request context otherwise.
func RequireAuth(tokens TokenParser, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w, err)
				return
			}
			id, err := tokens.Parse(token)
			if err != nil {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}
			user, err := users.GetUser(id)
			if errors.Is(err, repositories.ErrNotFound) {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="blogapi"`)
	writeError(w, http.StatusUnauthorized, err.Error())
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user stored by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
