package users

import (
	"net/http"

	"artshare-api/database"
	"artshare-api/internal/api/apierr"
	"artshare-api/internal/api/params"
	"artshare-api/internal/api/views"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// POST /users/:id/follow
func FollowUser(c *gin.Context) {
	changeFollow(c, gallery.FollowUser)
}

// DELETE /users/:id/follow
func UnfollowUser(c *gin.Context) {
	changeFollow(c, gallery.UnfollowUser)
}

func changeFollow(c *gin.Context, apply func(tx *gorm.DB, follower, followed *gallery.User) error) {
	me, err := params.MustUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	targetID, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var target *gallery.User
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		follower, err := gallery.LoadUser(tx, me)
		if err != nil {
			return apierr.ErrUnauthorized
		}
		followed, err := gallery.LoadUser(tx, targetID)
		if err != nil {
			return err
		}
		if err := apply(tx, follower, followed); err != nil {
			return err
		}
		target = followed
		return nil
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.UserRead(target))
}
