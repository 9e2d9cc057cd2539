package models

import "github.com/gosimple/slug"

// String renders the category as its name.
func (c *Category) String() string {
	return c.Name
}

// PluralLabel returns the label used for a collection of categories.
func (c *Category) PluralLabel() string {
	return CategoryCollectionLabel
}

// Slug returns a DOM and URL safe form of the name.
func (c *Category) Slug() string {
	return slug.Make(c.Name)
}

// Validate checks the category against its field constraints.
func (c *Category) Validate() error {
	return validate.Struct(c)
}
