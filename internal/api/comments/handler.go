package comments

import (
	"net/http"
	"strconv"
	"strings"

	"artshare-api/database"
	"artshare-api/internal/api/apierr"
	"artshare-api/internal/api/params"
	"artshare-api/internal/api/views"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
	Art     *uint  `json:"art" binding:"omitempty,gt=0"`
}

// GET /comments
func ListComments(c *gin.Context) {
	page := params.Paging(c)
	q := database.DB.WithContext(c.Request.Context()).
		Preload("User").
		Preload("Art").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit)
	if raw := c.Query("art"); raw != "" {
		artID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierr.Respond(c, apierr.Field("art", "art must be a numeric id"))
			return
		}
		q = q.Where("art_id = ?", artID)
	}

	var list []*gallery.Comment
	if err := q.Find(&list).Error; err != nil {
		apierr.Respond(c, err)
		return
	}
	out := make([]views.Comment, 0, len(list))
	for _, cm := range list {
		out = append(out, views.CommentRead(cm))
	}
	c.JSON(http.StatusOK, out)
}

// GET /comments/:id
func GetComment(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	cm, err := gallery.LoadComment(database.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.CommentRead(cm))
}

func bindComment(c *gin.Context) (*CommentRequest, error) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apierr.Validation(err)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, apierr.Field("content", "content is a required field")
	}
	return &req, nil
}

func attach(tx *gorm.DB, cm *gallery.Comment, req *CommentRequest) error {
	cm.Content = req.Content
	cm.SetArt(nil)
	if req.Art == nil {
		return nil
	}
	art, err := gallery.FindArtRef(tx, "art", *req.Art)
	if err != nil {
		return err
	}
	art.AddComment(cm)
	return nil
}

// POST /comments
func CreateComment(c *gin.Context) {
	userID, err := params.MustUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	req, err := bindComment(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var created *gallery.Comment
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		author, err := gallery.FindUserRef(tx, "user", userID)
		if err != nil {
			return apierr.ErrUnauthorized
		}
		cm := &gallery.Comment{}
		if err := attach(tx, cm, req); err != nil {
			return err
		}
		author.AddComment(cm)
		if err := gallery.CreateComment(tx, cm); err != nil {
			return err
		}
		created, err = gallery.LoadComment(tx, cm.ID)
		return err
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, views.CommentRead(created))
}

// PUT /comments/:id
func ReplaceComment(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	req, err := bindComment(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var updated *gallery.Comment
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		cm, err := gallery.LoadComment(tx, id)
		if err != nil {
			return err
		}
		if !params.CanActFor(c, cm.UserID) {
			return apierr.ErrForbidden
		}
		if err := attach(tx, cm, req); err != nil {
			return err
		}
		if err := gallery.SaveComment(tx, cm); err != nil {
			return err
		}
		updated, err = gallery.LoadComment(tx, id)
		return err
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.CommentPut(updated))
}
