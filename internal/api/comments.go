package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/telemetry"
)

// commentRequest is the shape of a comment body; only the text is submitted
type commentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// createComment handles POST /posts/:id/comments. The target post must be
// visible to the requester; commenting on a hidden post would reveal its
// existence.
func (r *Router) createComment(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "comments.create")
	defer span.End()

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := r.posts.GetByID(ctx, postID)
	if err != nil {
		r.serverError(c, err)
		return
	}
	if post == nil || !post.VisibleTo(currentUserID(c), time.Now().UTC()) {
		notFound(c)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	comment := &models.Comment{
		Text:        req.Text,
		IsPublished: true,
		CreatedAt:   time.Now().UTC(),
		PostID:      post.ID,
		AuthorID:    currentUserID(c),
	}
	if err := r.comments.Create(ctx, comment); err != nil {
		r.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postDetailPath(post.ID))
}

// resolveComment loads the comment addressed by the path, enforcing that it
// belongs to the post in the path
func (r *Router) resolveComment(c *gin.Context) (*models.Comment, bool) {
	postID, ok := postIDParam(c)
	if !ok {
		return nil, false
	}

	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil || commentID <= 0 {
		notFound(c)
		return nil, false
	}

	comment, err := r.comments.GetByID(c.Request.Context(), commentID)
	if err != nil {
		r.serverError(c, err)
		return nil, false
	}
	if comment == nil || comment.PostID != postID {
		notFound(c)
		return nil, false
	}
	return comment, true
}

// updateComment handles PUT /posts/:id/comments/:comment_id, ownership gated
func (r *Router) updateComment(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "comments.update")
	defer span.End()

	comment, ok := r.resolveComment(c)
	if !ok {
		return
	}
	if !requireOwner(c, comment.AuthorID, postDetailPath(comment.PostID)) {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	comment.Text = req.Text
	if err := r.comments.Update(ctx, comment); err != nil {
		r.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postDetailPath(comment.PostID))
}

// deleteComment handles DELETE /posts/:id/comments/:comment_id, ownership gated
func (r *Router) deleteComment(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "comments.delete")
	defer span.End()

	comment, ok := r.resolveComment(c)
	if !ok {
		return
	}
	if !requireOwner(c, comment.AuthorID, postDetailPath(comment.PostID)) {
		return
	}

	if err := r.comments.Delete(ctx, comment.ID); err != nil {
		r.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postDetailPath(comment.PostID))
}
