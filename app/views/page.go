package views

import (
	"inkwell/app/forms"
	"inkwell/app/models"
)

// IndexPage is the context of the index template.
type IndexPage struct {
	Posts []*models.Post
}

// CategoryPage is the context of the category template.
type CategoryPage struct {
	Category string
	Posts    []*models.Post
}

// DetailPage is the context of the detail template.
type DetailPage struct {
	Post     *models.Post
	Comments []*models.Comment
	Form     *forms.CommentForm
}

// NotFoundPage is the context of the 404 template.
type NotFoundPage struct {
	Message string
}
