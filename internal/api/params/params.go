// Package params reads path, query and auth values off a gin context.
package params

import (
	"strconv"

	"artshare-api/internal/api/apierr"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 30
	MaxLimit     = 100
)

// ID parses a positive integer path parameter.
func ID(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, apierr.Field(name, "must be a positive integer")
	}
	return uint(n), nil
}

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// Paging reads ?page= and ?limit=, falling back to 1 and DefaultLimit.
func Paging(c *gin.Context) Page {
	p := Page{Page: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		p.Limit = min(n, MaxLimit)
	}
	return p
}

// UserID is the authenticated caller, 0 when the route is public.
func UserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

func Roles(c *gin.Context) []gallery.Role {
	if v, ok := c.Get("roles"); ok {
		if roles, ok := v.([]gallery.Role); ok {
			return roles
		}
	}
	return nil
}

func IsAdmin(c *gin.Context) bool {
	return gallery.HasRole(Roles(c), gallery.RoleAdmin)
}

// MustUserID returns the caller or apierr.ErrUnauthorized.
func MustUserID(c *gin.Context) (uint, error) {
	id := UserID(c)
	if id == 0 {
		return 0, apierr.ErrUnauthorized
	}
	return id, nil
}

// CanActFor reports whether the caller is owner or an admin.
func CanActFor(c *gin.Context, owner *uint) bool {
	if IsAdmin(c) {
		return true
	}
	id := UserID(c)
	return id != 0 && owner != nil && *owner == id
}
