package controllers

import (
	"log/slog"
	"net/http"

	"blogapi/app/models"
	"blogapi/app/services"

	"github.com/gorilla/mux"
)

// CommentController handles HTTP requests for comments. Both actions run
// behind the authentication guard.
type CommentController struct {
	responder
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, logger *slog.Logger) *CommentController {
	return &CommentController{
		responder:      responder{logger: logger},
		commentService: commentService,
	}
}

// Index lists the comments of a post
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	comments, err := cc.commentService.ListPostComments(mux.Vars(r)["post_slug"])
	if err != nil {
		cc.handleError(w, r, err, postNotFound)
		return
	}
	cc.sendJSON(w, http.StatusOK, comments)
}

// Create adds a comment to a post on behalf of the caller
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		cc.sendError(w, "authentication credentials were not provided", http.StatusUnauthorized)
		return
	}

	var in models.CommentInput
	if !cc.decodeJSON(w, r, &in) {
		return
	}

	comment, err := cc.commentService.CreateComment(mux.Vars(r)["post_slug"], user, in)
	if err != nil {
		cc.handleError(w, r, err, postNotFound)
		return
	}
	cc.sendJSON(w, http.StatusCreated, comment)
}
