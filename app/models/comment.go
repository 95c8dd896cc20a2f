package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := Validate(c); err != nil {
		return err
	}

	if c.CreatedDate.IsZero() {
		return errors.New("created_date cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedDate.IsZero() {
		c.CreatedDate = time.Now().UTC()
	}
}

// SetPost attaches the comment to post.
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.PostID = post.ID
	c.Post = post.Slug
	return nil
}
