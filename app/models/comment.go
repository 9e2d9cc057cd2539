package models

import (
	"errors"
	"fmt"
	"time"
)

// String renders the comment as "{author} on '{post}'".
func (c *Comment) String() string {
	title := ""
	if c.Post != nil {
		title = c.Post.String()
	}
	return fmt.Sprintf("%s on '%s'", c.Author, title)
}

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.CreatedOn.IsZero() {
		return errors.New("created_on cannot be zero")
	}
	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate(now time.Time) {
	if c.CreatedOn.IsZero() {
		c.CreatedOn = now
	}
}

// SetPost sets the parent post and updates the PostID
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.Post = post
	c.PostID = post.ID
	return nil
}
