package commissions

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

// CommissionRequest is used for create and replace. Client defaults to the
// caller on create.
type CommissionRequest struct {
	Details string  `json:"details" binding:"required"`
	Price   float64 `json:"price" binding:"gte=0"`
	NSFW    bool    `json:"nsfw"`
	Anonyme bool    `json:"anonyme"`
	Artist  *uint   `json:"artist" binding:"omitempty,gt=0"`
	Client  *uint   `json:"client" binding:"omitempty,gt=0"`
}

// GET /commissions
func ListCommissions(c *gin.Context) {
	page := params.Paging(c)
	var list []*gallery.Commission
	err := database.DB.WithContext(c.Request.Context()).
		Preload("Artist").
		Preload("Client").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&list).Error
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	out := make([]views.Commission, 0, len(list))
	for _, m := range list {
		out = append(out, views.CommissionRead(m))
	}
	c.JSON(http.StatusOK, out)
}

// GET /commissions/:id
func GetCommission(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	m, err := gallery.LoadCommission(database.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.CommissionRead(m))
}

func bindCommission(c *gin.Context) (*CommissionRequest, error) {
	var req CommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apierr.Validation(err)
	}
	if strings.TrimSpace(req.Details) == "" {
		return nil, apierr.Field("details", "details is a required field")
	}
	return &req, nil
}

func fill(tx *gorm.DB, m *gallery.Commission, req *CommissionRequest, defaultClient uint) error {
	m.Details = req.Details
	m.Price = req.Price
	m.NSFW = req.NSFW
	m.Anonyme = req.Anonyme

	m.SetArtist(nil)
	if req.Artist != nil {
		artist, err := gallery.FindUserRef(tx, "artist", *req.Artist)
		if err != nil {
			return err
		}
		artist.AddArtistCommission(m)
	}

	clientID := defaultClient
	if req.Client != nil {
		clientID = *req.Client
	}
	m.SetClient(nil)
	if clientID != 0 {
		client, err := gallery.FindUserRef(tx, "client", clientID)
		if err != nil {
			return err
		}
		client.AddClientCommission(m)
	}
	return nil
}

// POST /commissions
func CreateCommission(c *gin.Context) {
	userID, err := params.MustUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	req, err := bindCommission(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var created *gallery.Commission
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		m := &gallery.Commission{}
		if err := fill(tx, m, req, userID); err != nil {
			return err
		}
		if !m.IsParty(userID) && !params.IsAdmin(c) {
			return apierr.ErrForbidden
		}
		if err := gallery.CreateCommission(tx, m); err != nil {
			return err
		}
		var err error
		created, err = gallery.LoadCommission(tx, m.ID)
		return err
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, views.CommissionRead(created))
}

// PUT /commissions/:id
func ReplaceCommission(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	req, err := bindCommission(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var updated *gallery.Commission
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		m, err := gallery.LoadCommission(tx, id)
		if err != nil {
			return err
		}
		if !m.IsParty(params.UserID(c)) && !params.IsAdmin(c) {
			return apierr.ErrForbidden
		}
		if err := fill(tx, m, req, 0); err != nil {
			return err
		}
		if err := gallery.SaveCommission(tx, m); err != nil {
			return err
		}
		updated, err = gallery.LoadCommission(tx, id)
		return err
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views.CommissionRead(updated))
}
