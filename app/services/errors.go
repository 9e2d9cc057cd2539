package services

import "errors"

var (
	// ErrPostNotFound is returned when a post id does not resolve.
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidPost is returned when a post fails its field constraints.
	ErrInvalidPost = errors.New("invalid post")
	// ErrInvalidCategory is returned when a category fails its field constraints.
	ErrInvalidCategory = errors.New("invalid category")
)
