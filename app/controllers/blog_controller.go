package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"inkwell/app/forms"
	"inkwell/app/logger"
	"inkwell/app/metrics"
	"inkwell/app/models"
	"inkwell/app/services"
	"inkwell/app/views"

	"github.com/gorilla/mux"
)

// Renderer writes a named page template with the given context.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// BlogController serves the index, category and detail pages
type BlogController struct {
	posts    *services.PostService
	comments *services.CommentService
	renderer Renderer
	log      *logger.ContextLogger
}

// NewBlogController creates a new BlogController
func NewBlogController(posts *services.PostService, comments *services.CommentService, renderer Renderer, log *slog.Logger) *BlogController {
	return &BlogController{
		posts:    posts,
		comments: comments,
		renderer: renderer,
		log:      logger.NewContextLogger(log),
	}
}

// Index lists every post, newest first
func (bc *BlogController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := bc.posts.ListAllPosts()
	if err != nil {
		bc.sendError(w, r, "list posts", err)
		return
	}
	bc.render(w, r, http.StatusOK, views.IndexTemplate, views.IndexPage{Posts: posts})
}

// Category lists posts whose categories match the path segment
func (bc *BlogController) Category(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	posts, err := bc.posts.ListPostsByCategory(category)
	if err != nil {
		bc.sendError(w, r, "list posts by category", err)
		return
	}
	bc.render(w, r, http.StatusOK, views.CategoryTemplate, views.CategoryPage{
		Category: category,
		Posts:    posts,
	})
}

// Detail shows a post with its comments and accepts new comments.
// A valid POST redirects back to the same path; an invalid one re-renders
// the page with the submitted values and their errors.
func (bc *BlogController) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["pk"])
	if err != nil {
		bc.notFound(w, r, "Invalid post id")
		return
	}

	post, err := bc.posts.GetPost(id)
	if errors.Is(err, services.ErrPostNotFound) {
		bc.notFound(w, r, fmt.Sprintf("Post %d does not exist.", id))
		return
	}
	if err != nil {
		bc.sendError(w, r, "get post", err)
		return
	}

	form := forms.NewCommentForm()
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form = forms.BindCommentForm(r.PostForm)
		if form.Valid() {
			if !bc.addComment(w, r, post, form) {
				return
			}
			metrics.CommentsCreated.Inc()
			http.Redirect(w, r, r.URL.Path, http.StatusFound)
			return
		}
		metrics.CommentsRejected.Inc()
	}

	comments, err := bc.comments.ListCommentsForPost(post)
	if err != nil {
		bc.sendError(w, r, "list comments", err)
		return
	}
	bc.render(w, r, http.StatusOK, views.DetailTemplate, views.DetailPage{
		Post:     post,
		Comments: comments,
		Form:     form,
	})
}

func (bc *BlogController) addComment(w http.ResponseWriter, r *http.Request, post *models.Post, form *forms.CommentForm) bool {
	comment, err := bc.comments.AddComment(post, form.Cleaned())
	if errors.Is(err, services.ErrPostNotFound) {
		bc.notFound(w, r, fmt.Sprintf("Post %d does not exist.", post.ID))
		return false
	}
	if err != nil {
		bc.sendError(w, r, "add comment", err)
		return false
	}
	bc.log.WithContext(r.Context()).Info("comment created",
		"post_id", post.ID,
		"comment_id", comment.ID,
	)
	return true
}

func (bc *BlogController) notFound(w http.ResponseWriter, r *http.Request, message string) {
	bc.render(w, r, http.StatusNotFound, views.NotFoundTemplate, views.NotFoundPage{Message: message})
}

func (bc *BlogController) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := bc.renderer.Render(w, status, name, data); err != nil {
		bc.sendError(w, r, "render "+name, err)
	}
}

// sendError logs err and answers with a bare 500. Storage and template
// details never reach the client.
func (bc *BlogController) sendError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	bc.log.LogError(r.Context(), operation, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
