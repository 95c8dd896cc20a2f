package models

import "time"

// Post represents a blog post. Slug is its external identifier.
type Post struct {
	ID          int       `json:"id" validate:"gte=0"`
	Slug        string    `json:"slug" validate:"required,max=200,slug"`
	H1          string    `json:"h1" validate:"required,max=200"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=500"`
	Content     string    `json:"content" validate:"required"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at" validate:"required"`
	Tags        []string  `json:"tags" validate:"-"`
}

// Tag is created implicitly the first time a post is saved with it.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID          int       `json:"id" validate:"gte=0"`
	PostID      int       `json:"post_id" validate:"required,gt=0"`
	Post        string    `json:"post" validate:"required"`
	Username    string    `json:"username" validate:"required,max=150"`
	Text        string    `json:"text" validate:"required,max=1000"`
	CreatedDate time.Time `json:"created_date" validate:"required"`
}

// User is a registered account. PasswordHash is persisted but never
// rendered: handlers respond with Profile instead.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"password_hash"`
	DateJoined   time.Time `json:"date_joined"`
}

// UserProfile is the public representation of a User.
type UserProfile struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	DateJoined time.Time `json:"date_joined"`
}

// Profile returns the public fields of the user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		DateJoined: u.DateJoined,
	}
}
