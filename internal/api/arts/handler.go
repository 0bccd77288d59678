package arts

import (
	"net/http"
	"strings"

	"artshare-api/database"
	"artshare-api/internal/api/apierr"
	"artshare-api/internal/api/params"
	"artshare-api/internal/api/views"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /arts
func ListArts(c *gin.Context) {
	page := params.Paging(c)
	db := database.DB.WithContext(c.Request.Context())

	ids, err := gallery.PageIDs(db, &gallery.Art{}, page.Offset(), page.Limit)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	out := make([]views.Art, 0, len(ids))
	for _, id := range ids {
		a, err := gallery.LoadArt(db, id)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		out = append(out, views.ArtRead(a))
	}
	c.JSON(http.StatusOK, out)
}

// GET /arts/:id
func GetArt(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	a, err := gallery.LoadArt(database.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.ArtRead(a))
}

func bindArt(c *gin.Context) (*ArtRequest, error) {
	var req ArtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apierr.Validation(err)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apierr.Field("title", "title is a required field")
	}
	return &req, nil
}

// apply copies the request onto a, resolving every referenced id.
func apply(tx *gorm.DB, a *gallery.Art, req *ArtRequest, defaultArtist uint) error {
	a.Title = req.Title
	a.Description = req.Description

	artistID := defaultArtist
	if req.Artist != nil {
		artistID = *req.Artist
	}
	a.SetArtist(nil)
	if artistID != 0 {
		artist, err := gallery.FindUserRef(tx, "artist", artistID)
		if err != nil {
			return err
		}
		a.SetArtist(artist)
	}

	a.SetImage(nil)
	if req.Image != nil {
		img, err := gallery.FindImageRef(tx, "image", *req.Image)
		if err != nil {
			return err
		}
		a.SetImage(img)
	}
	return nil
}

// POST /arts
func CreateArt(c *gin.Context) {
	userID, err := params.MustUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	req, err := bindArt(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var created *gallery.Art
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		a := &gallery.Art{}
		if err := apply(tx, a, req, userID); err != nil {
			return err
		}
		if req.Artist != nil && *req.Artist != userID && !params.IsAdmin(c) {
			return apierr.ErrForbidden
		}
		if err := gallery.CreateArt(tx, a); err != nil {
			return err
		}
		if req.Likes != nil {
			if err := gallery.ReplaceLikers(tx, a, "likes", req.Likes); err != nil {
				return err
			}
		}
		var err error
		created, err = gallery.LoadArt(tx, a.ID)
		return err
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, views.ArtRead(created))
}

// PUT /arts/:id
func ReplaceArt(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	req, err := bindArt(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var updated *gallery.Art
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		a, err := gallery.LoadArt(tx, id)
		if err != nil {
			return err
		}
		if !params.CanActFor(c, a.ArtistID) {
			return apierr.ErrForbidden
		}
		if req.Artist != nil && *req.Artist != params.UserID(c) && !params.IsAdmin(c) {
			return apierr.ErrForbidden
		}
		if err := apply(tx, a, req, 0); err != nil {
			return err
		}
		if err := gallery.SaveArt(tx, a); err != nil {
			return err
		}
		if req.Likes != nil {
			if err := gallery.ReplaceLikers(tx, a, "likes", req.Likes); err != nil {
				return err
			}
		}
		updated, err = gallery.LoadArt(tx, id)
		return err
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.ArtPut(updated))
}

// POST /arts/:id/likes
func LikeArt(c *gin.Context) {
	changeLike(c, gallery.Like)
}

// DELETE /arts/:id/likes
func UnlikeArt(c *gin.Context) {
	changeLike(c, gallery.Unlike)
}

func changeLike(c *gin.Context, apply func(tx *gorm.DB, u *gallery.User, a *gallery.Art) error) {
	userID, err := params.MustUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var art *gallery.Art
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		a, err := gallery.LoadArt(tx, id)
		if err != nil {
			return err
		}
		u, err := gallery.LoadUser(tx, userID)
		if err != nil {
			return apierr.ErrUnauthorized
		}
		if err := apply(tx, u, a); err != nil {
			return err
		}
		art = a
		return nil
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.ArtRead(art))
}
