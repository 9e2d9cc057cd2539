package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"inkwell/app/forms"
	"inkwell/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer()
	require.NoError(t, err)
	return r
}

func samplePost() *models.Post {
	return &models.Post{
		ID:         3,
		Title:      "Hello <World>",
		Body:       `<p>Intro</p><script>alert(1)</script>`,
		CreatedOn:  time.Date(2024, 2, 3, 4, 5, 0, 0, time.UTC),
		Categories: []*models.Category{{ID: 1, Name: "Test Category"}},
	}
}

func TestRenderIndex(t *testing.T) {
	r := newRenderer(t)
	w := httptest.NewRecorder()

	err := r.Render(w, http.StatusOK, IndexTemplate, IndexPage{Posts: []*models.Post{samplePost()}})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, body, `href="/post/3"`)
	assert.Contains(t, body, "Hello &lt;World&gt;")
	assert.Contains(t, body, "<p>Intro</p>")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, `class="category category-test-category"`)
	assert.Contains(t, body, `href="/category/Test%20Category"`)
	assert.Contains(t, body, "categories:")
}

func TestRenderIndexEmpty(t *testing.T) {
	r := newRenderer(t)
	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, http.StatusOK, IndexTemplate, IndexPage{}))
	assert.Contains(t, w.Body.String(), "No posts yet.")
}

func TestRenderCategory(t *testing.T) {
	r := newRenderer(t)
	w := httptest.NewRecorder()

	err := r.Render(w, http.StatusOK, CategoryTemplate, CategoryPage{Category: "Python"})
	require.NoError(t, err)
	assert.Contains(t, w.Body.String(), "<h1>Python</h1>")
	assert.Contains(t, w.Body.String(), "No posts in this category.")
}

func TestRenderDetail(t *testing.T) {
	r := newRenderer(t)
	post := samplePost()

	t.Run("empty form", func(t *testing.T) {
		w := httptest.NewRecorder()
		page := DetailPage{
			Post:     post,
			Comments: []*models.Comment{{ID: 1, Author: "Ann", Body: "Nice <b>post</b>", Post: post}},
			Form:     forms.NewCommentForm(),
		}
		require.NoError(t, r.Render(w, http.StatusOK, DetailTemplate, page))

		body := w.Body.String()
		assert.Contains(t, body, "<b>Ann</b> wrote:")
		assert.Contains(t, body, "Nice &lt;b&gt;post&lt;/b&gt;")
		assert.Contains(t, body, `placeholder="Write your name here."`)
		assert.Contains(t, body, `maxlength="60"`)
		assert.NotContains(t, body, `class="error"`)
	})

	t.Run("form with errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		form := forms.BindCommentForm(map[string][]string{"body": {"kept body"}})
		page := DetailPage{Post: post, Comments: []*models.Comment{}, Form: form}
		require.NoError(t, r.Render(w, http.StatusOK, DetailTemplate, page))

		body := w.Body.String()
		assert.Contains(t, body, `data-field="author"`)
		assert.Contains(t, body, "This field is required.")
		assert.Contains(t, body, "kept body")
		assert.Contains(t, body, "No comments yet.")
	})
}

func TestRenderNotFound(t *testing.T) {
	r := newRenderer(t)
	w := httptest.NewRecorder()
	require.NoError(t, r.Render(w, http.StatusNotFound, NotFoundTemplate, NotFoundPage{Message: "Post 9 does not exist."}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Post 9 does not exist.")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newRenderer(t)
	w := httptest.NewRecorder()
	assert.Error(t, r.Render(w, http.StatusOK, "nope.html", nil))
}

func TestRenderFailureWritesNothing(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html":        {Data: []byte(`{{define "layout"}}<html>{{template "content" .}}</html>{{end}}`)},
		"blog/index.html":    {Data: []byte(`{{define "content"}}{{.Missing.Field}}{{end}}`)},
		"blog/category.html": {Data: []byte(`{{define "content"}}{{end}}`)},
		"blog/detail.html":   {Data: []byte(`{{define "content"}}{{end}}`)},
		"blog/404.html":      {Data: []byte(`{{define "content"}}{{end}}`)},
	}
	r, err := NewTemplateRendererFS(fsys)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	err = r.Render(w, http.StatusOK, IndexTemplate, IndexPage{})
	assert.Error(t, err)
	assert.Empty(t, w.Body.String())
}

func TestSanitize(t *testing.T) {
	out := string(Sanitize(`<a href="https://example.com">x</a><img src=x onerror=alert(1)>`))
	assert.Contains(t, out, `rel="nofollow noopener"`)
	assert.False(t, strings.Contains(out, "onerror"))
}

func TestRenderSharedCategoryHasNoDuplicateIDs(t *testing.T) {
	r := newRenderer(t)
	first, second := samplePost(), samplePost()
	second.ID = 4

	for _, tt := range []struct {
		name string
		page any
		tmpl string
	}{
		{"index", IndexPage{Posts: []*models.Post{first, second}}, IndexTemplate},
		{"category", CategoryPage{Category: "Test", Posts: []*models.Post{first, second}}, CategoryTemplate},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, r.Render(w, http.StatusOK, tt.tmpl, tt.page))
			body := w.Body.String()
			assert.Equal(t, 2, strings.Count(body, "category-test-category"))
			assert.NotContains(t, body, `id="category-`)
		})
	}
}
