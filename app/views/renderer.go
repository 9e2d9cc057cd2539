// Package views renders the blog pages from embedded html/template files.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"inkwell/app/models"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

// Page template names.
const (
	IndexTemplate    = "blog/index.html"
	CategoryTemplate = "blog/category.html"
	DetailTemplate   = "blog/detail.html"
	NotFoundTemplate = "blog/404.html"
)

//go:embed templates
var embedded embed.FS

// TemplateRenderer executes page templates wrapped in the shared layout.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return NewTemplateRendererFS(sub)
}

// NewTemplateRendererFS parses layout.html plus every page from fsys.
func NewTemplateRendererFS(fsys fs.FS) (*TemplateRenderer, error) {
	funcs := templateFuncs()
	pages := []string{IndexTemplate, CategoryTemplate, DetailTemplate, NotFoundTemplate}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &TemplateRenderer{templates: templates}, nil
}

// Render executes the named page with data and writes it with status.
// Output is buffered so a failing template never sends a partial page.
func (tr *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := tr.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var bodyPolicy = newBodyPolicy()

func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Sanitize strips unsafe markup from post bodies.
func Sanitize(body string) template.HTML {
	return template.HTML(bodyPolicy.Sanitize(body))
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"sanitize": Sanitize,
		"slug":     slug.Make,
		"categoriesLabel": func() string {
			return models.CategoryCollectionLabel
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"postURL": func(id int) string {
			return "/post/" + strconv.Itoa(id)
		},
		"categoryURL": func(name string) string {
			return "/category/" + url.PathEscape(name)
		},
	}
}
