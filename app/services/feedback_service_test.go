package services

import (
	"context"
	"errors"
	"testing"

	"blogapi/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() models.ContactMessage {
	return models.ContactMessage{
		Name:    "Jane",
		Email:   "jane@example.com",
		Subject: "Hello",
		Message: "I liked your post.",
	}
}

func TestFeedbackService_Submit(t *testing.T) {
	m := &recordingMailer{}
	service := NewFeedbackService(m, "owner@blog.test", discardLogger())

	require.NoError(t, service.Submit(context.Background(), validContact()))
	require.Len(t, m.sent, 1)
	msg := m.sent[0]
	assert.Equal(t, "jane@example.com", msg.From)
	assert.Equal(t, []string{"owner@blog.test"}, msg.To)
	assert.Equal(t, "From Jane | Hello", msg.Subject)
	assert.Equal(t, "I liked your post.", msg.Body)
}

func TestFeedbackService_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.ContactMessage)
		wantField string
	}{
		{"missing name", func(c *models.ContactMessage) { c.Name = "" }, "name"},
		{"missing email", func(c *models.ContactMessage) { c.Email = "" }, "email"},
		{"invalid email", func(c *models.ContactMessage) { c.Email = "jane" }, "email"},
		{"missing subject", func(c *models.ContactMessage) { c.Subject = "" }, "subject"},
		{"missing message", func(c *models.ContactMessage) { c.Message = "" }, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &recordingMailer{}
			service := NewFeedbackService(m, "owner@blog.test", discardLogger())

			msg := validContact()
			tt.mutate(&msg)
			err := service.Submit(context.Background(), msg)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
			assert.Empty(t, m.sent, "no mail may be sent for an invalid message")
		})
	}
}

func TestFeedbackService_DeliveryFailure(t *testing.T) {
	m := &recordingMailer{err: errors.New("connection refused")}
	service := NewFeedbackService(m, "owner@blog.test", discardLogger())

	err := service.Submit(context.Background(), validContact())
	assert.ErrorIs(t, err, ErrMailDelivery)
	assert.Contains(t, err.Error(), "connection refused")
}
