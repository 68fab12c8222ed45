package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requireOwner is the single ownership gate applied before any record
// mutation. It reports whether the mutation may proceed.
//
// Without an authenticated identity the request is redirected to the
// authentication entry point. An authenticated requester who is not the
// record's author is silently redirected to the record's public detail view
// instead of receiving a permission error, leaving the record untouched.
func requireOwner(c *gin.Context, authorID int64, detailPath string) bool {
	userID := currentUserID(c)
	if userID == 0 {
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
		return false
	}
	if userID != authorID {
		c.Redirect(http.StatusFound, detailPath)
		c.Abort()
		return false
	}
	return true
}
