package repositories

import (
	"fmt"
	"sort"

	"inkwell/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCategoryRepository implements CategoryRepository using BadgerDB
type BadgerCategoryRepository struct {
	db *badger.DB
}

// NewBadgerCategoryRepository creates a new BadgerCategoryRepository
func NewBadgerCategoryRepository(db *badger.DB) *BadgerCategoryRepository {
	return &BadgerCategoryRepository{db: db}
}

// Create creates a new category
func (r *BadgerCategoryRepository) Create(category *models.Category) error {
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, CategorySeqKey)
		if err != nil {
			return err
		}
		category.ID = id

		data, err := marshalEntity(category)
		if err != nil {
			return err
		}
		return txn.Set(categoryKey(id), data)
	})
}

// GetByID retrieves a category by ID
func (r *BadgerCategoryRepository) GetByID(id int) (*models.Category, error) {
	var category models.Category
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, categoryKey(id), &category)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByName retrieves the first category whose name equals name exactly
func (r *BadgerCategoryRepository) GetByName(name string) (*models.Category, error) {
	categories, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

// List retrieves all categories ordered by name
func (r *BadgerCategoryRepository) List() ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(CategoryKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var category models.Category
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &category)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal category: %w", err)
			}
			categories = append(categories, &category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Name == categories[j].Name {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// Delete deletes a category and its join rows. Posts are left untouched.
func (r *BadgerCategoryRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := categoryKey(id)
		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		for _, k := range keysWithPrefix(txn, categoryPostPrefix(id)) {
			postID, err := lastKeySegment(k)
			if err != nil {
				return err
			}
			if err := txn.Delete(postCategoryKey(postID, id)); err != nil {
				return err
			}
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return txn.Delete(key)
	})
}

// loadCategories resolves the categories joined to postID.
func loadCategories(txn *badger.Txn, postID int) ([]*models.Category, error) {
	categories := []*models.Category{}
	for _, k := range keysWithPrefix(txn, postCategoryPrefix(postID)) {
		categoryID, err := lastKeySegment(k)
		if err != nil {
			return nil, err
		}
		var category models.Category
		if err := getEntity(txn, categoryKey(categoryID), &category); err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		categories = append(categories, &category)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}
