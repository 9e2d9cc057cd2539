package repositories

import (
	"fmt"
	"time"

	"inkwell/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db, now: nowUTC}
}

// Create creates a new post and links it to post.Categories, which must
// already exist.
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		post.BeforeCreate(r.now())

		if err := linkCategories(txn, post.ID, post.CategoryIDs()); err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// GetByID retrieves a post by ID with its categories
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		categories, err := loadCategories(txn, id)
		if err != nil {
			return err
		}
		post.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every post with its categories, in key order
func (r *BadgerPostRepository) List() ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				it.Close()
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = append(posts, &post)
		}
		it.Close()

		for _, post := range posts {
			categories, err := loadCategories(txn, post.ID)
			if err != nil {
				return err
			}
			post.Categories = categories
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates title and body of an existing post. CreatedOn is kept from
// the stored record and LastModified is refreshed.
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Post
		if err := getEntity(txn, postKey(post.ID), &existing); err != nil {
			return err
		}

		post.CreatedOn = existing.CreatedOn
		post.Touch(r.now())

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// SetCategories replaces the categories linked to a post.
func (r *BadgerPostRepository) SetCategories(postID int, categoryIDs []int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var post models.Post
		if err := getEntity(txn, postKey(postID), &post); err != nil {
			return err
		}

		if err := unlinkCategories(txn, postID); err != nil {
			return err
		}
		if err := linkCategories(txn, postID, categoryIDs); err != nil {
			return err
		}

		post.Touch(r.now())
		data, err := marshalEntity(&post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(postID), data)
	})
}

// Delete deletes a post, all of its comments and its category join rows in
// a single transaction.
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(id)
		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		for _, k := range keysWithPrefix(txn, commentPrefix(id)) {
			commentID, err := lastKeySegment(k)
			if err != nil {
				return err
			}
			if err := txn.Delete(commentRefKey(commentID)); err != nil {
				return err
			}
			if err := txn.Delete(k); err != nil {
				return err
			}
		}

		if err := unlinkCategories(txn, id); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func linkCategories(txn *badger.Txn, postID int, categoryIDs []int) error {
	for _, categoryID := range categoryIDs {
		ok, err := exists(txn, categoryKey(categoryID))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("category %d: %w", categoryID, ErrInvalidReference)
		}
		if err := txn.Set(postCategoryKey(postID, categoryID), []byte{}); err != nil {
			return err
		}
		if err := txn.Set(categoryPostKey(categoryID, postID), []byte{}); err != nil {
			return err
		}
	}
	return nil
}

func unlinkCategories(txn *badger.Txn, postID int) error {
	for _, k := range keysWithPrefix(txn, postCategoryPrefix(postID)) {
		categoryID, err := lastKeySegment(k)
		if err != nil {
			return err
		}
		if err := txn.Delete(categoryPostKey(categoryID, postID)); err != nil {
			return err
		}
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
