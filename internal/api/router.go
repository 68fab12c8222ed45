package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/cache"
	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/internal/media"
	"github.com/inkwell/inkwell/pkg/config"
	"github.com/inkwell/inkwell/pkg/logging"
)

// loginPath is where unauthenticated mutation attempts are redirected
const loginPath = "/auth/login"

// Router sets up API routes
type Router struct {
	cfg        *config.Config
	users      *db.UserRepository
	categories *db.CategoryRepository
	locations  *db.LocationRepository
	posts      *db.PostRepository
	comments   *db.CommentRepository
	cache      *cache.Cache
	media      *media.Store
	tokens     *auth.TokenManager
	logger     *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(cfg *config.Config, database *db.DB, redisCache *cache.Cache, mediaStore *media.Store) *Router {
	repo := db.NewRepository(database.DB)

	return &Router{
		cfg:        cfg,
		users:      db.NewUserRepository(repo),
		categories: db.NewCategoryRepository(repo),
		locations:  db.NewLocationRepository(repo),
		posts:      db.NewPostRepository(repo),
		comments:   db.NewCommentRepository(repo),
		cache:      redisCache,
		media:      mediaStore,
		tokens:     auth.NewTokenManager(&cfg.Auth),
		logger:     logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Authentication
	engine.POST("/auth/register", r.register)
	engine.POST("/auth/login", r.login)

	// Feeds and post reads; viewer-aware, auth optional
	engine.GET("/posts", r.indexFeed)
	engine.GET("/posts/:id", r.OptionalAuth(), r.postDetail)
	engine.GET("/categories/:slug/posts", r.categoryFeed)
	engine.GET("/users/:username", r.userShow)
	engine.GET("/users/:username/posts", r.OptionalAuth(), r.profileFeed)

	// Mutations; unauthenticated requests are redirected to login
	engine.POST("/posts", r.RequireAuth(), r.createPost)
	engine.PUT("/posts/:id", r.RequireAuth(), r.updatePost)
	engine.DELETE("/posts/:id", r.RequireAuth(), r.deletePost)
	engine.POST("/posts/:id/image", r.RequireAuth(), r.uploadPostImage)
	engine.POST("/posts/:id/comments", r.RequireAuth(), r.createComment)
	engine.PUT("/posts/:id/comments/:comment_id", r.RequireAuth(), r.updateComment)
	engine.DELETE("/posts/:id/comments/:comment_id", r.RequireAuth(), r.deleteComment)

	// Own profile
	engine.GET("/profile", r.RequireAuth(), r.ownProfile)
	engine.PUT("/profile", r.RequireAuth(), r.updateProfile)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "inkwell-api",
	})
}
