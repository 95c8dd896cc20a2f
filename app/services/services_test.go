package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"blogapi/app/mailer"
	"blogapi/app/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postInput(title string, tags ...string) models.PostInput {
	return models.PostInput{
		H1:      "Heading " + title,
		Title:   title,
		Content: "<p>Body of " + title + "</p>",
		Tags:    tags,
	}
}

// recordingMailer captures sent messages and optionally fails.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
