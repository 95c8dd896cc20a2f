package controllers

import (
	"log/slog"
	"net/http"

	"blogapi/app/models"
	"blogapi/app/services"
)

// FeedbackController forwards the contact form
type FeedbackController struct {
	responder
	feedbackService *services.FeedbackService
}

func NewFeedbackController(feedbackService *services.FeedbackService, logger *slog.Logger) *FeedbackController {
	return &FeedbackController{
		responder:       responder{logger: logger},
		feedbackService: feedbackService,
	}
}

// Create validates the submission and sends it by email
func (fc *FeedbackController) Create(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if !fc.decodeJSON(w, r, &msg) {
		return
	}

	if err := fc.feedbackService.Submit(r.Context(), msg); err != nil {
		fc.handleError(w, r, err, "not found")
		return
	}
	fc.sendJSON(w, http.StatusOK, map[string]string{"success": "Sent"})
}
