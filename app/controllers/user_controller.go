package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"blogapi/app/models"
	"blogapi/app/services"
)

// TokenIssuer creates bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int) (string, time.Time, error)
}

// UserController handles registration, login and the caller's profile
type UserController struct {
	responder
	userService *services.UserService
	tokens      TokenIssuer
}

func NewUserController(userService *services.UserService, tokens TokenIssuer, logger *slog.Logger) *UserController {
	return &UserController{
		responder:   responder{logger: logger},
		userService: userService,
		tokens:      tokens,
	}
}

// Register creates an account and returns its profile
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if !uc.decodeJSON(w, r, &in) {
		return
	}

	user, err := uc.userService.Register(in)
	if err != nil {
		uc.handleError(w, r, err, "user not found")
		return
	}
	uc.sendJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user.Profile(),
		"message": "User created successfully",
	})
}

// Token exchanges a username and password for a bearer token
func (uc *UserController) Token(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !uc.decodeJSON(w, r, &creds) {
		return
	}

	user, err := uc.userService.Authenticate(creds)
	if err != nil {
		uc.handleError(w, r, err, "user not found")
		return
	}
	token, expires, err := uc.tokens.Issue(user.ID)
	if err != nil {
		uc.handleError(w, r, err, "user not found")
		return
	}
	uc.sendJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": expires.UTC(),
	})
}

// Profile returns the authenticated caller
func (uc *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		uc.sendError(w, "authentication credentials were not provided", http.StatusUnauthorized)
		return
	}
	uc.sendJSON(w, http.StatusOK, map[string]interface{}{"user": user.Profile()})
}
