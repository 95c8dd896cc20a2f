package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsWireNames(t *testing.T) {
	err := Validate(&ContactMessage{Name: "Ann", Subject: "Hi", Message: "Hello"})
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, []string{"This field is required."}, verr.Fields["email"])
	assert.Len(t, verr.Fields, 1)
}

func TestValidateContactMessage(t *testing.T) {
	tests := []struct {
		name   string
		msg    ContactMessage
		fields []string
	}{
		{
			name: "valid",
			msg:  ContactMessage{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Message: "Hello"},
		},
		{
			name:   "bad email",
			msg:    ContactMessage{Name: "Ann", Email: "not-an-email", Subject: "Hi", Message: "Hello"},
			fields: []string{"email"},
		},
		{
			name:   "everything missing",
			msg:    ContactMessage{},
			fields: []string{"name", "email", "subject", "message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.msg)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.fields))
		})
	}
}

func TestValidateRegisterInput(t *testing.T) {
	valid := RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "s3cret-pass",
		Password2: "s3cret-pass",
	}
	assert.NoError(t, Validate(&valid))

	mismatch := valid
	mismatch.Password2 = "other-pass"
	err := Validate(&mismatch)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, []string{"Password fields didn't match."}, verr.Fields["password2"])

	badName := valid
	badName.Username = "al ice"
	err = Validate(&badName)
	verr, ok = err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "username")

	short := valid
	short.Password, short.Password2 = "short", "short"
	err = Validate(&short)
	verr, ok = err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, []string{"Ensure this field has at least 8 characters."}, verr.Fields["password"])
}

func TestValidatePostInput(t *testing.T) {
	in := PostInput{H1: "Heading", Title: "Title", Content: "Body", Slug: "my-post", Tags: []string{"go"}}
	assert.NoError(t, Validate(&in))

	in.Slug = "My Post"
	assert.Error(t, Validate(&in))

	in.Slug = ""
	in.Tags = []string{""}
	err := Validate(&in)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "tags[0]")

	in.Tags = nil
	in.Image = "not a url"
	err = Validate(&in)
	verr, ok = err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, []string{"Enter a valid URL."}, verr.Fields["image"])
}

func TestValidationErrorMessage(t *testing.T) {
	verr := NewValidationError("slug", "taken")
	verr.Add("email", "bad")
	assert.Equal(t, "validation failed: email: bad; slug: taken", verr.Error())
}
