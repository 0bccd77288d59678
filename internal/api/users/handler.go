package users

import (
	"net/http"
	"strings"

	"artshare-api/database"
	"artshare-api/internal/api/apierr"
	"artshare-api/internal/api/auth"
	"artshare-api/internal/api/params"
	"artshare-api/internal/api/views"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /users
func ListUsers(c *gin.Context) {
	page := params.Paging(c)
	db := database.DB.WithContext(c.Request.Context())

	ids, err := gallery.PageIDs(db, &gallery.User{}, page.Offset(), page.Limit)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	out := make([]views.User, 0, len(ids))
	for _, id := range ids {
		u, err := gallery.LoadUser(db, id)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		out = append(out, views.UserRead(u))
	}
	c.JSON(http.StatusOK, out)
}

// POST /users
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.Validation(err))
		return
	}
	if strings.TrimSpace(req.Pseudo) == "" {
		apierr.Respond(c, apierr.Field("pseudo", "pseudo is a required field"))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	user := &gallery.User{Email: strings.TrimSpace(req.Email), Pseudo: req.Pseudo, Password: &hashed}
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := gallery.EnsureEmailAvailable(tx, user.Email, 0); err != nil {
			return err
		}
		if req.Image != nil {
			img, err := gallery.FindImageRef(tx, "image", *req.Image)
			if err != nil {
				return err
			}
			user.SetImage(img)
		}
		if err := gallery.CreateUser(tx, user); err != nil {
			return err
		}
		if req.Followed != nil {
			if err := gallery.ReplaceFollowed(tx, user, "followed", req.Followed); err != nil {
				return err
			}
		}
		if req.Likes != nil {
			if err := gallery.ReplaceLikes(tx, user, "likes", req.Likes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, views.UserCreated{ID: user.ID})
}

// GET /users/:id
func GetUser(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	user, err := gallery.LoadUser(database.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.UserRead(user))
}

// GET /me
func GetCurrentUser(c *gin.Context) {
	userID, err := params.MustUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	user, err := gallery.LoadUser(database.DB.WithContext(c.Request.Context()), userID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.UserRead(user))
}

// PUT /users/:id
func ReplaceUser(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	var req ReplaceUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.Validation(err))
		return
	}
	if strings.TrimSpace(req.Pseudo) == "" {
		apierr.Respond(c, apierr.Field("pseudo", "pseudo is a required field"))
		return
	}

	var hashed *string
	if req.Password != nil {
		h, err := auth.HashPassword(*req.Password)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		hashed = &h
	}

	var user *gallery.User
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = gallery.LoadUser(tx, id)
		if err != nil {
			return err
		}
		if user.ID != params.UserID(c) && !params.IsAdmin(c) {
			return apierr.ErrForbidden
		}
		email := strings.TrimSpace(req.Email)
		if err := gallery.EnsureEmailAvailable(tx, email, user.ID); err != nil {
			return err
		}

		user.Email = email
		user.Pseudo = req.Pseudo
		if hashed != nil {
			user.Password = hashed
		}
		user.SetImage(nil)
		if req.Image != nil {
			img, err := gallery.FindImageRef(tx, "image", *req.Image)
			if err != nil {
				return err
			}
			user.SetImage(img)
		}
		if err := gallery.SaveUser(tx, user); err != nil {
			return err
		}
		if req.Followed != nil {
			if err := gallery.ReplaceFollowed(tx, user, "followed", req.Followed); err != nil {
				return err
			}
		}
		if req.Likes != nil {
			if err := gallery.ReplaceLikes(tx, user, "likes", req.Likes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, views.UserPut(user))
}

// DELETE /users/:id
func DeleteUser(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&gallery.User{}, id).Error; err != nil {
			return err
		}
		if id != params.UserID(c) && !params.IsAdmin(c) {
			return apierr.ErrForbidden
		}
		return gallery.DeleteUser(tx, id)
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
