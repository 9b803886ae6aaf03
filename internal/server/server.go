// Package server contains the HTTP handlers of every agora service.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/internal/config"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var displayNames = map[string]string{
	config.ServiceUser:     "User Service",
	config.ServicePost:     "Post Service",
	config.ServiceComment:  "Comment Service",
	config.ServiceTrending: "Trending Service",
	config.ServiceGateway:  "Gateway",
}

// DisplayName is the human-readable name a service reports in health and banner payloads.
func DisplayName(service string) string {
	if name, ok := displayNames[service]; ok {
		return name
	}
	return service
}

// Deps are the already-initialized collaborators of a Server. Only the
// fields the configured service needs must be set.
type Deps struct {
	Redis    *redis.Client
	Health   *service.HealthChecker
	Users    *service.UserService
	Posts    *service.PostService
	Comments *service.CommentService
	Trending *service.TrendingService
	Auth     *service.AuthService
	Tokens   *service.TokenIssuer
	// Closers run on Shutdown after the listener has stopped.
	Closers []func() error
}

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	redis           *redis.Client
	registry        *prometheus.Registry
	promMiddleware  *fiberprometheus.FiberPrometheus
	health          *service.HealthChecker
	userService     *service.UserService
	postService     *service.PostService
	commentService  *service.CommentService
	trendingService *service.TrendingService
	authService     *service.AuthService
	tokens          *service.TokenIssuer
	closers         []func() error
}

// NewServer creates a server for cfg.Service.
func NewServer(cfg *config.Config, deps Deps) *Server {
	registry := prometheus.NewRegistry()
	health := deps.Health
	if health == nil {
		health = service.NewHealthChecker(DisplayName(cfg.Service))
	}
	return &Server{
		config:          cfg,
		redis:           deps.Redis,
		registry:        registry,
		promMiddleware:  fiberprometheus.NewWithRegistry(registry, "agora-"+cfg.Service, "agora", "http", nil),
		health:          health,
		userService:     deps.Users,
		postService:     deps.Posts,
		commentService:  deps.Comments,
		trendingService: deps.Trending,
		authService:     deps.Auth,
		tokens:          deps.Tokens,
		closers:         deps.Closers,
	}
}

// NewApp builds a Fiber app with middleware and routes in place.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "agora " + s.config.Service,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escape a handler in the standard error body.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	slog.ErrorContext(c.UserContext(), "unhandled error", "path", c.Path(), "err", err)
	return models.RespondWithAppError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	app.Use(s.promMiddleware.Middleware)
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: !strings.Contains(origins, "*"),
		MaxAge:           86400,
	}))

	// Only the gateway faces clients directly; service-to-service traffic
	// arrives from a handful of addresses and must not be throttled.
	if s.config.Service == config.ServiceGateway {
		app.Use(limiter.New(limiter.Config{
			Max:        100,
			Expiration: 1 * time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
					Error: "Too many requests, please try again later.",
				})
			},
		}))
	}
}

// SetupRoutes mounts the routes of the configured service.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Banner)
	app.Get("/health", s.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(
		prometheus.Gatherers{prometheus.DefaultGatherer, s.registry},
		promhttp.HandlerOpts{},
	)))

	switch s.config.Service {
	case config.ServiceUser:
		s.setupUserRoutes(app)
	case config.ServicePost:
		s.setupPostRoutes(app)
	case config.ServiceComment:
		s.setupCommentRoutes(app)
	case config.ServiceTrending:
		s.setupTrendingRoutes(app)
	case config.ServiceGateway:
		s.setupGatewayRoutes(app)
	}
}

func (s *Server) setupUserRoutes(app *fiber.App) {
	app.Post("/auth/verify", s.VerifyCredentials)

	users := app.Group("/users")
	users.Post("/", s.CreateUser)
	// Specific routes before the generic /:id routes
	users.Put("/follow/:id", s.FollowUser)
	users.Put("/unfollow/:id", s.UnfollowUser)
	users.Put("/:id/counters/:counter", s.AdjustUserCounter)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)
}

func (s *Server) setupPostRoutes(app *fiber.App) {
	app.Get("/users/:id/posts", s.GetUserPosts)

	posts := app.Group("/posts")
	posts.Post("/", s.CreatePost)
	posts.Delete("/delete/:userId/:id", s.DeletePost)
	// Define specific /:id/:resource routes BEFORE generic /:userId/:id route
	posts.Get("/:id/summary", s.GetPostSummary)
	posts.Put("/:id/like", s.LikePost)
	posts.Put("/:id/dislike", s.DislikePost)
	posts.Put("/:userId/:id", s.EditPost)
	posts.Get("/:id", s.GetPost)
}

func (s *Server) setupCommentRoutes(app *fiber.App) {
	app.Get("/users/:id/comments", s.GetUserComments)
	app.Get("/posts/:id/comments", s.GetPostComments)

	comments := app.Group("/comments")
	comments.Post("/", s.CreateComment)
	comments.Delete("/delete/:userId/:id", s.DeleteComment)
	comments.Put("/:id/like", s.LikeComment)
	comments.Put("/:id/dislike", s.DislikeComment)
	comments.Put("/:userId/:id", s.EditComment)
	comments.Get("/:id", s.GetComment)
}

func (s *Server) setupTrendingRoutes(app *fiber.App) {
	trending := app.Group("/trending")
	trending.Get("/posts", s.TrendingPostsByScore)
	trending.Get("/posts/likes", s.TrendingPostsByLikes)
	trending.Get("/posts/dislikes", s.TrendingPostsByDislikes)
	trending.Get("/comments", s.TrendingCommentsByScore)
	trending.Get("/comments/likes", s.TrendingCommentsByLikes)
	trending.Get("/comments/dislikes", s.TrendingCommentsByDislikes)
	trending.Get("/users/activity", s.TrendingUsersByActivity)
	trending.Get("/users/followers", s.TrendingUsersByFollowers)
	trending.Get("/users/commenters", s.TrendingTopCommenters)
}

func (s *Server) setupGatewayRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	loginLimit := middleware.NewRateLimiter(s.redis, middleware.RateLimitConfig{
		Name:   "login",
		Limit:  s.config.LoginRateLimit,
		Window: s.config.LoginRateWindow,
		Policy: middleware.FailOpen,
		Bypass: !s.config.RateLimited(),
	})
	auth.Post("/login", loginLimit.Handler(), s.Login)
	auth.Get("/me", middleware.AuthRequired(s.tokens), s.Me)
}

// Shutdown releases server resources once the listener has stopped.
func (s *Server) Shutdown(_ context.Context) error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
