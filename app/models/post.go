package models

import (
	"errors"
	"strings"
	"time"
)

// String renders the post as its title.
func (p *Post) String() string {
	return p.Title
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if p.CreatedOn.IsZero() {
		return errors.New("created_on cannot be zero")
	}
	return nil
}

// BeforeCreate stamps the creation time once. LastModified starts equal to it.
func (p *Post) BeforeCreate(now time.Time) {
	if p.CreatedOn.IsZero() {
		p.CreatedOn = now
	}
	p.LastModified = p.CreatedOn
}

// Touch records a mutation.
func (p *Post) Touch(now time.Time) {
	p.LastModified = now
}

// HasCategoryLike reports whether any category name contains name,
// ignoring case.
func (p *Post) HasCategoryLike(name string) bool {
	needle := strings.ToLower(name)
	for _, c := range p.Categories {
		if c != nil && strings.Contains(strings.ToLower(c.Name), needle) {
			return true
		}
	}
	return false
}

// CategoryIDs returns the ids of the attached categories.
func (p *Post) CategoryIDs() []int {
	ids := make([]int, 0, len(p.Categories))
	for _, c := range p.Categories {
		if c != nil {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
