package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CategoryCollectionLabel is the plural label used wherever a set of
// categories is shown.
const CategoryCollectionLabel = "categories"

// Category is a named tag attachable to many posts.
type Category struct {
	ID   int    `json:"id" validate:"gte=0"`
	Name string `json:"name" validate:"required,max=30"`
}

// Post represents a blog post. Categories are loaded from the join rows and
// are never stored inside the post record itself.
type Post struct {
	ID           int         `json:"id" validate:"gte=0"`
	Title        string      `json:"title" validate:"required,max=255"`
	Body         string      `json:"body" validate:"required"`
	CreatedOn    time.Time   `json:"created_on"`
	LastModified time.Time   `json:"last_modified"`
	Categories   []*Category `json:"-" validate:"-"`
}

// Comment represents a reader remark attached to exactly one post.
type Comment struct {
	ID        int       `json:"id" validate:"gte=0"`
	PostID    int       `json:"post_id" validate:"required,gt=0"`
	Author    string    `json:"author" validate:"required,max=60"`
	Body      string    `json:"body" validate:"required"`
	CreatedOn time.Time `json:"created_on"`
	Post      *Post     `json:"-" validate:"-"`
}
