package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/telemetry"
)

// postRequest is the shape of a post on create and update. The author is
// never taken from the body; it is always the authenticated requester.
type postRequest struct {
	Title       string    `json:"title" binding:"required,max=256"`
	Text        string    `json:"text" binding:"required"`
	PubDate     time.Time `json:"pub_date" binding:"required"`
	IsPublished *bool     `json:"is_published"`
	CategoryID  *int64    `json:"category_id"`
	LocationID  *int64    `json:"location_id"`
}

func postDetailPath(id int64) string {
	return fmt.Sprintf("/posts/%d", id)
}

// postIDParam parses the :id path parameter
func postIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		notFound(c)
		return 0, false
	}
	return id, true
}

// postDetail handles GET /posts/:id. The author sees their post
// unconditionally; for anyone else the visibility rules apply and a hidden
// post is indistinguishable from a missing one.
func (r *Router) postDetail(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.detail")
	defer span.End()

	id, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := r.posts.GetByID(ctx, id)
	if err != nil {
		r.serverError(c, err)
		return
	}
	if post == nil || !post.VisibleTo(currentUserID(c), time.Now().UTC()) {
		notFound(c)
		return
	}

	comments, err := r.comments.ListByPost(ctx, post.ID)
	if err != nil {
		r.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
	})
}

// resolveReferences checks that a submitted category/location exist
func (r *Router) resolveReferences(c *gin.Context, req *postRequest) bool {
	ctx := c.Request.Context()

	if req.CategoryID != nil {
		category, err := r.categories.GetByID(ctx, *req.CategoryID)
		if err != nil {
			r.serverError(c, err)
			return false
		}
		if category == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"fields": gin.H{"category_id": "unknown category"},
			})
			return false
		}
	}
	if req.LocationID != nil {
		location, err := r.locations.GetByID(ctx, *req.LocationID)
		if err != nil {
			r.serverError(c, err)
			return false
		}
		if location == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"fields": gin.H{"location_id": "unknown location"},
			})
			return false
		}
	}
	return true
}

// createPost handles POST /posts
func (r *Router) createPost(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.create")
	defer span.End()

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if !r.resolveReferences(c, &req) {
		return
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	post := &models.Post{
		Title:       req.Title,
		Text:        req.Text,
		PubDate:     req.PubDate,
		IsPublished: published,
		CreatedAt:   time.Now().UTC(),
		AuthorID:    currentUserID(c),
		CategoryID:  req.CategoryID,
		LocationID:  req.LocationID,
	}
	if err := r.posts.Create(ctx, post); err != nil {
		r.serverError(c, err)
		return
	}

	r.logger.Info("Post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("author_id", post.AuthorID))

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%s/posts", c.GetString(ctxUsername)))
}

// updatePost handles PUT /posts/:id, ownership gated
func (r *Router) updatePost(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.update")
	defer span.End()

	id, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := r.posts.GetByID(ctx, id)
	if err != nil {
		r.serverError(c, err)
		return
	}
	if post == nil {
		notFound(c)
		return
	}
	if !requireOwner(c, post.AuthorID, postDetailPath(post.ID)) {
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if !r.resolveReferences(c, &req) {
		return
	}

	post.Title = req.Title
	post.Text = req.Text
	post.PubDate = req.PubDate
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}
	post.CategoryID = req.CategoryID
	post.LocationID = req.LocationID

	if err := r.posts.Update(ctx, post); err != nil {
		r.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postDetailPath(post.ID))
}

// deletePost handles DELETE /posts/:id, ownership gated
func (r *Router) deletePost(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.delete")
	defer span.End()

	id, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := r.posts.GetByID(ctx, id)
	if err != nil {
		r.serverError(c, err)
		return
	}
	if post == nil {
		notFound(c)
		return
	}
	if !requireOwner(c, post.AuthorID, postDetailPath(post.ID)) {
		return
	}

	if err := r.posts.Delete(ctx, post.ID); err != nil {
		r.serverError(c, err)
		return
	}

	// The stored image goes with the post; a storage failure here only
	// leaves an orphaned object behind
	if r.media != nil && post.ImageKey != "" {
		if err := r.media.Delete(ctx, post.ImageKey); err != nil {
			r.logger.Warn("Failed to delete post image",
				zap.String("image_key", post.ImageKey),
				zap.Error(err))
		}
	}

	r.logger.Info("Post deleted",
		zap.Int64("post_id", post.ID),
		zap.Int64("author_id", post.AuthorID))

	c.Redirect(http.StatusFound, "/posts")
}

// uploadPostImage handles POST /posts/:id/image, ownership gated
func (r *Router) uploadPostImage(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "posts.upload_image")
	defer span.End()

	id, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := r.posts.GetByID(ctx, id)
	if err != nil {
		r.serverError(c, err)
		return
	}
	if post == nil {
		notFound(c)
		return
	}
	if !requireOwner(c, post.AuthorID, postDetailPath(post.ID)) {
		return
	}

	if r.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"image": "image file is required"},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		r.serverError(c, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key, url, err := r.media.Upload(ctx, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"image": err.Error()},
		})
		return
	}

	// Replacing an image removes the previous object
	oldKey := post.ImageKey
	post.ImageKey = key
	post.ImageURL = url
	if err := r.posts.Update(ctx, post); err != nil {
		r.serverError(c, err)
		return
	}
	if oldKey != "" {
		if err := r.media.Delete(ctx, oldKey); err != nil {
			r.logger.Warn("Failed to delete replaced post image",
				zap.String("image_key", oldKey),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"image_url": post.ImageURL})
}
