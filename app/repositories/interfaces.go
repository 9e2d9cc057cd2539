package repositories

import "inkwell/app/models"

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id int) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	List() ([]*models.Category, error)
	Delete(id int) error
}

// PostRepository defines the interface for post data access. Posts are
// returned with their categories attached.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	List() ([]*models.Post, error)
	Update(post *models.Post) error
	SetCategories(postID int, categoryIDs []int) error
	// Delete removes the post together with its comments and join rows.
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	CountByPost(postID int) (int, error)
	Delete(id int) error
}
