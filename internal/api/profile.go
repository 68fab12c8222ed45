package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/pkg/telemetry"
)

// profileRequest is the shape of a profile update. Empty fields keep their
// current value; the target record is always the requester's own.
type profileRequest struct {
	Username  string  `json:"username" binding:"omitempty,min=3,max=150"`
	Email     string  `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio" binding:"omitempty,max=2000"`
}

// ownProfile handles GET /profile
func (r *Router) ownProfile(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "profile.show")
	defer span.End()

	user, err := r.users.GetByID(ctx, currentUserID(c))
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

// updateProfile handles PUT /profile. No ownership gate is needed: the
// target is derived from the session, not a path parameter.
func (r *Router) updateProfile(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "profile.update")
	defer span.End()

	user, err := r.users.GetByID(ctx, currentUserID(c))
	if err != nil {
		r.serverError(c, err)
		return
	}
	if user == nil {
		notFound(c)
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	if req.Username != "" && req.Username != user.Username {
		existing, err := r.users.GetByUsername(ctx, req.Username)
		if err != nil {
			r.serverError(c, err)
			return
		}
		if existing != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"fields": gin.H{"username": "already taken"},
			})
			return
		}
		user.Username = req.Username
	}

	if req.Email != "" && req.Email != user.Email {
		existing, err := r.users.GetByEmail(ctx, req.Email)
		if err != nil {
			r.serverError(c, err)
			return
		}
		if existing != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"fields": gin.H{"email": "already registered"},
			})
			return
		}
		user.Email = req.Email
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := r.users.Update(ctx, user); err != nil {
		r.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%s/posts", user.Username))
}
