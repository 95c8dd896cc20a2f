package controllers

import (
	"net/http"
	"testing"

	"blogapi/app/models"
	"blogapi/app/repositories/mock"
	"blogapi/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentController(t *testing.T) {
	repos := mock.New()
	postService := services.NewPostService(repos.Posts, services.DefaultPostOptions())
	controller := NewCommentController(services.NewCommentService(repos.Comments, repos.Posts), discardLogger())

	_, err := postService.CreatePost(models.PostInput{H1: "Hello", Title: "Hello", Content: "<p>Hi</p>"})
	require.NoError(t, err)

	router := mux.NewRouter()
	authed := router.NewRoute().Subrouter()
	authed.Use(asUser(&models.User{ID: 1, Username: "alice"}))
	authed.HandleFunc("/posts/{post_slug}/comments", controller.Index).Methods("GET")
	authed.HandleFunc("/posts/{post_slug}/comments", controller.Create).Methods("POST")

	t.Run("create comment", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/posts/hello/comments", `{"text": "First!"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var comment models.Comment
		decode(t, w, &comment)
		assert.Equal(t, "hello", comment.Post)
		assert.Equal(t, "alice", comment.Username)
		assert.Equal(t, "First!", comment.Text)
	})

	t.Run("list comments", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/posts/HELLO/comments", "")
		require.Equal(t, http.StatusOK, w.Code)

		var comments []models.Comment
		decode(t, w, &comments)
		require.Len(t, comments, 1)
		assert.Equal(t, "First!", comments[0].Text)
	})

	t.Run("empty text", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/posts/hello/comments", `{"text": ""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body errorBody
		decode(t, w, &body)
		assert.Contains(t, body.Fields, "text")
	})

	t.Run("unknown post", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/posts/missing/comments", `{"text": "hi"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(router, http.MethodGet, "/posts/missing/comments", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no user in context", func(t *testing.T) {
		bare := mux.NewRouter()
		bare.HandleFunc("/posts/{post_slug}/comments", controller.Create).Methods("POST")
		w := doRequest(bare, http.MethodPost, "/posts/hello/comments", `{"text": "hi"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
