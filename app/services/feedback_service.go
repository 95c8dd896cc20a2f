package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"blogapi/app/mailer"
	"blogapi/app/models"
)

// ErrMailDelivery wraps transport failures while sending feedback.
var ErrMailDelivery = errors.New("failed to send message")

// FeedbackService forwards contact form submissions by email
type FeedbackService struct {
	mailer    mailer.Mailer
	recipient string
	logger    *slog.Logger
}

func NewFeedbackService(m mailer.Mailer, recipient string, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{
		mailer:    m,
		recipient: recipient,
		logger:    logger,
	}
}

// Submit validates msg and sends it to the site owner. Nothing is sent when
// validation fails.
func (s *FeedbackService) Submit(ctx context.Context, msg models.ContactMessage) error {
	if err := models.Validate(&msg); err != nil {
		return err
	}

	err := s.mailer.Send(ctx, mailer.Message{
		From:    msg.Email,
		To:      []string{s.recipient},
		Subject: fmt.Sprintf("From %s | %s", msg.Name, msg.Subject),
		Body:    msg.Message,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "feedback delivery failed", "error", err)
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	s.logger.InfoContext(ctx, "feedback sent", "recipient", s.recipient)
	return nil
}
