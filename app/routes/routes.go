package routes

import (
	"log/slog"
	"net/http"

	"inkwell/app/controllers"
	"inkwell/app/middleware"
	"inkwell/app/repositories"
	"inkwell/app/services"
	"inkwell/app/views"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures the router.
type Options struct {
	StaticDir string
	Logger    *slog.Logger
	// Renderer overrides the embedded template renderer.
	Renderer controllers.Renderer
}

// NewRouter wires services and the blog controller over store and returns
// the application's router.
func NewRouter(store *repositories.Store, opts Options) (*mux.Router, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Renderer == nil {
		renderer, err := views.NewTemplateRenderer()
		if err != nil {
			return nil, err
		}
		opts.Renderer = renderer
	}

	postService := services.NewPostService(store.Posts, store.Categories)
	commentService := services.NewCommentService(store.Comments)
	controller := controllers.NewBlogController(postService, commentService, opts.Renderer, opts.Logger)

	return SetupRoutes(controller, opts), nil
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(controller *controllers.BlogController, opts Options) *mux.Router {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	router := mux.NewRouter()

	// Apply global middleware
	chain := []mux.MiddlewareFunc{
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		middleware.Recoverer(opts.Logger),
		middleware.Metrics,
	}
	router.Use(chain...)

	if opts.StaticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	// Blog pages
	router.HandleFunc("/", controller.Index).Methods(http.MethodGet)
	router.HandleFunc("/category/{category}", controller.Category).Methods(http.MethodGet)
	router.HandleFunc("/post/{pk:[0-9]+}", controller.Detail).Methods(http.MethodGet, http.MethodPost)

	// mux skips Use middleware for these two, so they get the chain directly
	router.NotFoundHandler = wrap(chain, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 page not found", http.StatusNotFound)
	}))
	router.MethodNotAllowedHandler = wrap(chain, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}))

	return router
}

// wrap applies chain in the same order as router.Use, first outermost.
func wrap(chain []mux.MiddlewareFunc, h http.Handler) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
