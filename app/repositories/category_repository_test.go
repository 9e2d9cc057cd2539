package repositories

import (
	"testing"

	"inkwell/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerCategoryRepository(t *testing.T) {
	store := setupTestStore(t)
	repo := store.Categories

	for _, name := range []string{"Web", "Go", "Databases"} {
		require.NoError(t, repo.Create(&models.Category{Name: name}))
	}

	t.Run("list ordered by name", func(t *testing.T) {
		categories, err := repo.List()
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "Databases", categories[0].Name)
		assert.Equal(t, "Go", categories[1].Name)
		assert.Equal(t, "Web", categories[2].Name)
	})

	t.Run("get by name", func(t *testing.T) {
		c, err := repo.GetByName("Go")
		require.NoError(t, err)
		assert.Equal(t, 2, c.ID)

		_, err = repo.GetByName("go")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete leaves posts", func(t *testing.T) {
		c, err := repo.GetByName("Web")
		require.NoError(t, err)
		post := &models.Post{Title: "Tagged", Body: "Body", Categories: []*models.Category{c}}
		require.NoError(t, store.Posts.Create(post))

		require.NoError(t, repo.Delete(c.ID))
		_, err = repo.GetByID(c.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := store.Posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Categories)

		assert.ErrorIs(t, repo.Delete(c.ID), ErrNotFound)
	})
}
