package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// PostService handles read and write operations on blog posts
type PostService struct {
	postRepo     repositories.PostRepository
	categoryRepo repositories.CategoryRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, categoryRepo repositories.CategoryRepository) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
	}
}

// ListAllPosts returns every post, newest first
func (s *PostService) ListAllPosts() ([]*models.Post, error) {
	posts, err := s.postRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	sortNewestFirst(posts)
	return posts, nil
}

// ListPostsByCategory returns posts with at least one category whose name
// contains name, ignoring case, newest first. No match yields an empty slice.
func (s *PostService) ListPostsByCategory(name string) ([]*models.Post, error) {
	posts, err := s.postRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	matched := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if post.HasCategoryLike(name) {
			matched = append(matched, post)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("post %d: %w", id, ErrPostNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return post, nil
}

// CreatePost validates and stores a post, linking it to the named
// categories. Categories that do not exist yet are created.
func (s *PostService) CreatePost(post *models.Post, categoryNames ...string) error {
	check := *post
	if check.CreatedOn.IsZero() {
		check.CreatedOn = time.Now()
	}
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPost, err)
	}

	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category, err := s.ensureCategory(name)
		if err != nil {
			return err
		}
		categories = append(categories, category)
	}
	post.Categories = categories

	if err := s.postRepo.Create(post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// UpdatePost updates an existing post with validation
func (s *PostService) UpdatePost(post *models.Post) error {
	existing, err := s.GetPost(post.ID)
	if err != nil {
		return err
	}

	check := *post
	check.CreatedOn = existing.CreatedOn
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPost, err)
	}

	if err := s.postRepo.Update(post); err != nil {
		return fmt.Errorf("update post %d: %w", post.ID, err)
	}
	return nil
}

// AssignCategories replaces the categories of a post by name
func (s *PostService) AssignCategories(postID int, categoryNames ...string) error {
	ids := make([]int, 0, len(categoryNames))
	for _, name := range categoryNames {
		category, err := s.ensureCategory(name)
		if err != nil {
			return err
		}
		ids = append(ids, category.ID)
	}

	err := s.postRepo.SetCategories(postID, ids)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("post %d: %w", postID, ErrPostNotFound)
	}
	return err
}

// DeletePost deletes a post. Its comments go with it.
func (s *PostService) DeletePost(id int) error {
	err := s.postRepo.Delete(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("post %d: %w", id, ErrPostNotFound)
	}
	return err
}

func (s *PostService) ensureCategory(name string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByName(name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	category = &models.Category{Name: name}
	if err := category.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("create category %q: %w", name, err)
	}
	return category, nil
}

// sortNewestFirst orders posts by CreatedOn descending, newer ids first on ties.
func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.CreatedOn.Equal(b.CreatedOn) {
			return a.ID > b.ID
		}
		return a.CreatedOn.After(b.CreatedOn)
	})
}
