package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/cache"
	"github.com/inkwell/inkwell/internal/db"
	"github.com/inkwell/inkwell/pkg/telemetry"
)

// pageParam reads the 1-based page number from the query string
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// indexFeed handles GET /posts
func (r *Router) indexFeed(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "feeds.index")
	defer span.End()

	page := pageParam(c)

	// The index feed is the same for every viewer, so it is safe to cache
	cacheKey := cache.HashKey("feed", "index", strconv.Itoa(page))
	if r.cache != nil {
		var cached db.FeedPage
		if err := r.cache.GetJSON(cacheKey, &cached); err == nil {
			c.JSON(http.StatusOK, &cached)
			return
		}
	}

	feed, err := r.posts.IndexFeed(ctx, time.Now().UTC(), page, r.cfg.Blog.PageSize)
	if err != nil {
		r.serverError(c, err)
		return
	}

	if r.cache != nil {
		_ = r.cache.SetJSON(cacheKey, feed, r.cfg.Blog.FeedCacheTTL)
	}

	c.JSON(http.StatusOK, feed)
}

// categoryFeed handles GET /categories/:slug/posts. An unpublished category
// is reported as missing.
func (r *Router) categoryFeed(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "feeds.category")
	defer span.End()

	slug := c.Param("slug")
	category, err := r.categories.GetPublishedBySlug(ctx, slug)
	if err != nil {
		r.serverError(c, err)
		return
	}
	if category == nil {
		notFound(c)
		return
	}

	page := pageParam(c)

	cacheKey := cache.HashKey("feed", "category", slug, strconv.Itoa(page))
	if r.cache != nil {
		var cached db.FeedPage
		if err := r.cache.GetJSON(cacheKey, &cached); err == nil {
			c.JSON(http.StatusOK, gin.H{"category": category, "feed": &cached})
			return
		}
	}

	feed, err := r.posts.CategoryFeed(ctx, category.ID, time.Now().UTC(), page, r.cfg.Blog.PageSize)
	if err != nil {
		r.serverError(c, err)
		return
	}

	if r.cache != nil {
		_ = r.cache.SetJSON(cacheKey, feed, r.cfg.Blog.FeedCacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "feed": feed})
}

// profileFeed handles GET /users/:username/posts. The profile owner sees
// their drafts and scheduled posts; everyone else gets the public view.
// Viewer-dependent, so never cached.
func (r *Router) profileFeed(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "feeds.profile")
	defer span.End()

	user, err := r.users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		r.serverError(c, err)
		return
	}
	if user == nil {
		notFound(c)
		return
	}

	includeHidden := currentUserID(c) == user.ID

	feed, err := r.posts.ProfileFeed(ctx, user.ID, includeHidden, time.Now().UTC(), pageParam(c), r.cfg.Blog.PageSize)
	if err != nil {
		r.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": user, "feed": feed})
}

// userShow handles GET /users/:username
func (r *Router) userShow(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "users.show")
	defer span.End()

	user, err := r.users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		r.serverError(c, err)
		return
	}
	if user == nil {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": user})
}
