package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := Validate(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

// HasTag reports whether the post is tagged with the given tag slug.
func (p *Post) HasTag(slug string) bool {
	for _, name := range p.Tags {
		if Slugify(name) == slug {
			return true
		}
	}
	return false
}
