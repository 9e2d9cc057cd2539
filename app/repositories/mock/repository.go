// Package mock provides in-memory repositories with the same relational
// rules as the badger implementation.
package mock

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

type data struct {
	mutex sync.RWMutex

	categories map[int]models.Category
	posts      map[int]models.Post
	comments   map[int]models.Comment
	links      map[int]map[int]struct{} // post id -> category ids

	nextCategoryID int
	nextPostID     int
	nextCommentID  int

	now func() time.Time
}

// Store bundles repositories over shared in-memory state.
type Store struct {
	Categories *CategoryRepository
	Posts      *PostRepository
	Comments   *CommentRepository

	d *data
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	d := &data{now: func() time.Time { return time.Now().UTC() }}
	d.reset()
	return &Store{
		Categories: &CategoryRepository{d: d},
		Posts:      &PostRepository{d: d},
		Comments:   &CommentRepository{d: d},
		d:          d,
	}
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.d.mutex.Lock()
	defer s.d.mutex.Unlock()
	s.d.now = now
}

// Clear removes all records and resets id sequences.
func (s *Store) Clear() {
	s.d.mutex.Lock()
	defer s.d.mutex.Unlock()
	s.d.reset()
}

func (d *data) reset() {
	d.categories = make(map[int]models.Category)
	d.posts = make(map[int]models.Post)
	d.comments = make(map[int]models.Comment)
	d.links = make(map[int]map[int]struct{})
	d.nextCategoryID = 1
	d.nextPostID = 1
	d.nextCommentID = 1
}

func (d *data) postWithCategories(p models.Post) *models.Post {
	p.Categories = []*models.Category{}
	for categoryID := range d.links[p.ID] {
		if c, ok := d.categories[categoryID]; ok {
			c := c
			p.Categories = append(p.Categories, &c)
		}
	}
	sort.Slice(p.Categories, func(i, j int) bool {
		return p.Categories[i].Name < p.Categories[j].Name
	})
	return &p
}

func (d *data) link(postID int, categoryIDs []int) error {
	for _, categoryID := range categoryIDs {
		if _, ok := d.categories[categoryID]; !ok {
			return fmt.Errorf("category %d: %w", categoryID, repositories.ErrInvalidReference)
		}
	}
	set := make(map[int]struct{}, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		set[categoryID] = struct{}{}
	}
	d.links[postID] = set
	return nil
}

// CategoryRepository implements repositories.CategoryRepository.
type CategoryRepository struct {
	d *data
}

func (m *CategoryRepository) Create(category *models.Category) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	category.ID = m.d.nextCategoryID
	m.d.nextCategoryID++
	m.d.categories[category.ID] = *category
	return nil
}

func (m *CategoryRepository) GetByID(id int) (*models.Category, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	c, ok := m.d.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (m *CategoryRepository) GetByName(name string) (*models.Category, error) {
	categories, _ := m.List()
	for _, c := range categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *CategoryRepository) List() ([]*models.Category, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	categories := make([]*models.Category, 0, len(m.d.categories))
	for _, c := range m.d.categories {
		c := c
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name == categories[j].Name {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (m *CategoryRepository) Delete(id int) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	if _, ok := m.d.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, set := range m.d.links {
		delete(set, id)
	}
	delete(m.d.categories, id)
	return nil
}

// PostRepository implements repositories.PostRepository.
type PostRepository struct {
	d *data
}

func (m *PostRepository) Create(post *models.Post) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	id := m.d.nextPostID
	if err := m.d.link(id, post.CategoryIDs()); err != nil {
		return err
	}
	m.d.nextPostID++
	post.ID = id
	post.BeforeCreate(m.d.now())

	stored := *post
	stored.Categories = nil
	m.d.posts[id] = stored
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	p, ok := m.d.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return m.d.postWithCategories(p), nil
}

func (m *PostRepository) List() ([]*models.Post, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.d.posts))
	for _, p := range m.d.posts {
		posts = append(posts, m.d.postWithCategories(p))
	}
	// Sort posts by ID to ensure consistent ordering
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	existing, ok := m.d.posts[post.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	post.CreatedOn = existing.CreatedOn
	post.Touch(m.d.now())

	stored := *post
	stored.Categories = nil
	m.d.posts[post.ID] = stored
	return nil
}

func (m *PostRepository) SetCategories(postID int, categoryIDs []int) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	p, ok := m.d.posts[postID]
	if !ok {
		return repositories.ErrNotFound
	}
	if err := m.d.link(postID, categoryIDs); err != nil {
		return err
	}
	p.Touch(m.d.now())
	m.d.posts[postID] = p
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	if _, ok := m.d.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	for commentID, c := range m.d.comments {
		if c.PostID == id {
			delete(m.d.comments, commentID)
		}
	}
	delete(m.d.links, id)
	delete(m.d.posts, id)
	return nil
}

// CommentRepository implements repositories.CommentRepository.
type CommentRepository struct {
	d *data
}

func (m *CommentRepository) Create(comment *models.Comment) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	if _, ok := m.d.posts[comment.PostID]; !ok {
		return fmt.Errorf("post %d: %w", comment.PostID, repositories.ErrInvalidReference)
	}
	comment.ID = m.d.nextCommentID
	m.d.nextCommentID++
	comment.BeforeCreate(m.d.now())

	stored := *comment
	stored.Post = nil
	m.d.comments[comment.ID] = stored
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	c, ok := m.d.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m.d.mutex.RLock()
	defer m.d.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, c := range m.d.comments {
		if c.PostID == postID {
			c := c
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (m *CommentRepository) CountByPost(postID int) (int, error) {
	comments, err := m.ListByPost(postID)
	return len(comments), err
}

func (m *CommentRepository) Delete(id int) error {
	m.d.mutex.Lock()
	defer m.d.mutex.Unlock()

	if _, ok := m.d.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.d.comments, id)
	return nil
}

var (
	_ repositories.CategoryRepository = (*CategoryRepository)(nil)
	_ repositories.PostRepository     = (*PostRepository)(nil)
	_ repositories.CommentRepository  = (*CommentRepository)(nil)
)
