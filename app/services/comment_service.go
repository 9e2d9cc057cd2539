package services

import (
	"errors"
	"fmt"

	"inkwell/app/forms"
	"inkwell/app/models"
	"inkwell/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// ListCommentsForPost returns the comments of post in creation order, each
// pointing back at post. The result is never nil.
func (s *CommentService) ListCommentsForPost(post *models.Post) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListByPost(post.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", post.ID, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	for _, c := range comments {
		c.Post = post
	}
	return comments, nil
}

// AddComment stores a validated comment owned by post
func (s *CommentService) AddComment(post *models.Post, input forms.CleanedComment) (*models.Comment, error) {
	comment := &models.Comment{
		Author: input.Author,
		Body:   input.Body,
	}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}

	err := s.commentRepo.Create(comment)
	if errors.Is(err, repositories.ErrInvalidReference) {
		return nil, fmt.Errorf("post %d: %w", post.ID, ErrPostNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// DeleteComment deletes a comment
func (s *CommentService) DeleteComment(id int) error {
	return s.commentRepo.Delete(id)
}
