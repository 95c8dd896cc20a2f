package routes

import (
	"log/slog"
	"net/http"

	"blogapi/app/auth"
	"blogapi/app/controllers"
	"blogapi/app/mailer"
	"blogapi/app/middleware"
	"blogapi/app/repositories"
	"blogapi/app/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Dependencies are the collaborators the router is assembled from.
type Dependencies struct {
	Repos  repositories.Repositories
	Store  controllers.Pinger
	Mailer mailer.Mailer
	Tokens *auth.TokenManager
	Logger *slog.Logger
	// Registry receives the HTTP metrics and backs /metrics. A fresh
	// registry with Go and process collectors is used when nil.
	Registry *prometheus.Registry

	Posts             services.PostOptions
	PublicPostWrites  bool
	FeedbackRecipient string
	BcryptCost        int
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) *mux.Router {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
		deps.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	logger := deps.Logger
	metrics := middleware.NewMetrics(deps.Registry)

	postService := services.NewPostService(deps.Repos.Posts, deps.Posts)
	tagService := services.NewTagService(deps.Repos.Tags, deps.Repos.Posts, deps.Posts)
	commentService := services.NewCommentService(deps.Repos.Comments, deps.Repos.Posts)
	userService := services.NewUserService(deps.Repos.Users, logger, deps.BcryptCost)
	feedbackService := services.NewFeedbackService(deps.Mailer, deps.FeedbackRecipient, logger)

	postController := controllers.NewPostController(postService, logger)
	tagController := controllers.NewTagController(tagService, logger)
	commentController := controllers.NewCommentController(commentService, logger)
	feedbackController := controllers.NewFeedbackController(feedbackService, logger)
	userController := controllers.NewUserController(userService, deps.Tokens, logger)
	healthController := controllers.NewHealthController(deps.Store, logger)

	router := mux.NewRouter()

	// Apply global middleware
	global := []mux.MiddlewareFunc{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recoverer(logger),
		middleware.ContentTypeJSON,
		metrics.Middleware,
	}
	router.Use(global...)
	router.NotFoundHandler = chain(errorHandler(http.StatusNotFound, "not found"), global)
	router.MethodNotAllowedHandler = chain(errorHandler(http.StatusMethodNotAllowed, "method not allowed"), global)

	guard := mux.MiddlewareFunc(middleware.RequireAuth(deps.Tokens, userService))
	writes := func(h http.HandlerFunc) http.Handler {
		if deps.PublicPostWrites {
			return h
		}
		return guard(h)
	}

	// Posts
	router.HandleFunc("/posts", postController.Index).Methods("GET")
	router.Handle("/posts", writes(postController.Create)).Methods("POST")
	router.HandleFunc("/posts/{slug}", postController.Show).Methods("GET")
	router.Handle("/posts/{slug}", writes(postController.Update)).Methods("PUT")
	router.Handle("/posts/{slug}", writes(postController.Patch)).Methods("PATCH")
	router.Handle("/posts/{slug}", writes(postController.Delete)).Methods("DELETE")
	router.HandleFunc("/aside", postController.Aside).Methods("GET")

	// Comments
	router.Handle("/posts/{post_slug}/comments", guard(http.HandlerFunc(commentController.Index))).Methods("GET")
	router.Handle("/posts/{post_slug}/comments", guard(http.HandlerFunc(commentController.Create))).Methods("POST")

	// Tags
	router.HandleFunc("/tags", tagController.Index).Methods("GET")
	router.HandleFunc("/tags/{tag_slug}/posts", tagController.Posts).Methods("GET")

	// Contact form
	router.HandleFunc("/feedback", feedbackController.Create).Methods("POST")

	// Accounts
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/token", userController.Token).Methods("POST")
	router.Handle("/profile", guard(http.HandlerFunc(userController.Profile))).Methods("GET")

	// Operations
	router.HandleFunc("/healthz", healthController.Health).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).Methods("GET")

	return router
}

// NewHandler wraps router with request tracing. Spans are named by method
// only; the route template is not known until the router has matched.
func NewHandler(router *mux.Router) http.Handler {
	return otelhttp.NewHandler(router, "blogapi",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	)
}

func chain(h http.Handler, mws []mux.MiddlewareFunc) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func errorHandler(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"error":"` + message + `"}` + "\n"))
	})
}
