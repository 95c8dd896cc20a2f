package controllers

import (
	"log/slog"
	"net/http"

	"blogapi/app/services"

	"github.com/gorilla/mux"
)

// TagController serves tags and the posts filed under them
type TagController struct {
	responder
	tagService *services.TagService
}

func NewTagController(tagService *services.TagService, logger *slog.Logger) *TagController {
	return &TagController{
		responder:  responder{logger: logger},
		tagService: tagService,
	}
}

// Index lists all tags
func (tc *TagController) Index(w http.ResponseWriter, r *http.Request) {
	tags, err := tc.tagService.ListTags()
	if err != nil {
		tc.handleError(w, r, err, "tag not found")
		return
	}
	tc.sendJSON(w, http.StatusOK, tags)
}

// Posts lists the posts of one tag page by page
func (tc *TagController) Posts(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := tc.tagService.PostsByTag(mux.Vars(r)["tag_slug"], page, size)
	if err != nil {
		tc.handleError(w, r, err, "tag not found")
		return
	}
	tc.sendPage(w, r, result)
}
