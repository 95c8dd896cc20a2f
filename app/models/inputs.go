package models

// PostInput is the writable part of a Post.
type PostInput struct {
	Slug        string   `json:"slug" validate:"omitempty,max=200,slug"`
	H1          string   `json:"h1" validate:"required,max=200"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=500"`
	Content     string   `json:"content" validate:"required"`
	Image       string   `json:"image" validate:"omitempty,url"`
	Tags        []string `json:"tags" validate:"max=20,dive,required,max=100"`
}

// PostPatch carries a partial update; nil fields are left untouched.
type PostPatch struct {
	H1          *string   `json:"h1"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Content     *string   `json:"content"`
	Image       *string   `json:"image"`
	Tags        *[]string `json:"tags"`
}

// Apply copies the supplied fields onto in.
func (p PostPatch) Apply(in *PostInput) {
	if p.H1 != nil {
		in.H1 = *p.H1
	}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Content != nil {
		in.Content = *p.Content
	}
	if p.Image != nil {
		in.Image = *p.Image
	}
	if p.Tags != nil {
		in.Tags = *p.Tags
	}
}

// Input returns the writable fields of the post.
func (p *Post) Input() PostInput {
	return PostInput{
		Slug:        p.Slug,
		H1:          p.H1,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		Image:       p.Image,
		Tags:        append([]string(nil), p.Tags...),
	}
}

// CommentInput is the body of a comment creation request.
type CommentInput struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// ContactMessage is a feedback form submission. It is never stored.
type ContactMessage struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=150,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// Credentials is the body of a token request.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
