package controllers

import (
	"log/slog"
	"net/http"

	"blogapi/app/models"
	"blogapi/app/services"

	"github.com/gorilla/mux"
)

const postNotFound = "post not found"

// PostController handles HTTP requests for blog posts
type PostController struct {
	responder
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger *slog.Logger) *PostController {
	return &PostController{
		responder:   responder{logger: logger},
		postService: postService,
	}
}

// Index lists posts page by page, filtered by the optional search parameter
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := pc.postService.ListPosts(r.URL.Query().Get("search"), page, size)
	if err != nil {
		pc.handleError(w, r, err, postNotFound)
		return
	}
	pc.sendPage(w, r, result)
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.GetPost(mux.Vars(r)["slug"])
	if err != nil {
		pc.handleError(w, r, err, postNotFound)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if !pc.decodeJSON(w, r, &in) {
		return
	}

	post, err := pc.postService.CreatePost(in)
	if err != nil {
		pc.handleError(w, r, err, postNotFound)
		return
	}
	pc.sendJSON(w, http.StatusCreated, post)
}

// Update replaces a post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if !pc.decodeJSON(w, r, &in) {
		return
	}

	post, err := pc.postService.UpdatePost(mux.Vars(r)["slug"], in)
	if err != nil {
		pc.handleError(w, r, err, postNotFound)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// Patch changes the supplied fields of a post
func (pc *PostController) Patch(w http.ResponseWriter, r *http.Request) {
	var patch models.PostPatch
	if !pc.decodeJSON(w, r, &patch) {
		return
	}

	post, err := pc.postService.PatchPost(mux.Vars(r)["slug"], patch)
	if err != nil {
		pc.handleError(w, r, err, postNotFound)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := pc.postService.DeletePost(mux.Vars(r)["slug"]); err != nil {
		pc.handleError(w, r, err, postNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Aside lists the most recent posts, newest first
func (pc *PostController) Aside(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.LatestPosts()
	if err != nil {
		pc.handleError(w, r, err, postNotFound)
		return
	}
	pc.sendJSON(w, http.StatusOK, posts)
}
