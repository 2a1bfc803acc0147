package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/laporinapp/laporin/internal/model"
)

// currentUserID reads the authenticated user's id set by the auth middleware.
// Handlers behind the middleware can rely on it being present.
func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// currentRole reads the authenticated user's role set by the auth middleware
func currentRole(c *gin.Context) model.Role {
	if v, ok := c.Get("user_role"); ok {
		if role, ok := v.(model.Role); ok {
			return role
		}
	}
	return model.RoleCitizen
}
