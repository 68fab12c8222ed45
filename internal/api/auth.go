package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/telemetry"
)

// registerRequest is the shape of a new account
type registerRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Bio       string `json:"bio" binding:"max=2000"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// register handles POST /auth/register
func (r *Router) register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "auth.register")
	defer span.End()

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	if existing, err := r.users.GetByUsername(ctx, req.Username); err != nil {
		r.serverError(c, err)
		return
	} else if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"username": "already taken"},
		})
		return
	}

	if existing, err := r.users.GetByEmail(ctx, req.Email); err != nil {
		r.serverError(c, err)
		return
	} else if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"email": "already registered"},
		})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		r.serverError(c, err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Bio:          req.Bio,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.users.Create(ctx, user); err != nil {
		r.serverError(c, err)
		return
	}

	token, err := r.tokens.Issue(user.ID, user.Username)
	if err != nil {
		r.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// login handles POST /auth/login
func (r *Router) login(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "auth.login")
	defer span.End()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	user, err := r.users.GetByUsername(ctx, req.Username)
	if err != nil {
		r.serverError(c, err)
		return
	}
	if user == nil {
		// Same response as a wrong password
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		r.serverError(c, err)
		return
	}

	token, err := r.tokens.Issue(user.ID, user.Username)
	if err != nil {
		r.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
