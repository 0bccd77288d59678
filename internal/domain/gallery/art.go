package gallery

import (
	"time"

	"artshare-api/internal/domain/media"
)

type Art struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`

	ArtistID *uint `gorm:"index"`
	Artist   *User

	ImageID *string       `gorm:"type:uuid;index"`
	Image   *media.Object `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	Comments []*Comment `gorm:"foreignKey:ArtID;constraint:OnDelete:CASCADE;"`
	Likes    []*User    `gorm:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Art) SetArtist(u *User) *Art {
	a.Artist = u
	a.ArtistID = userID(u)
	return a
}

func (a *Art) SetImage(img *media.Object) *Art {
	a.Image = img
	a.ImageID = nil
	if img != nil {
		id := img.ID
		a.ImageID = &id
	}
	return a
}

func (a *Art) AddComment(c *Comment) *Art {
	if indexOf(a.Comments, c, sameComment) >= 0 {
		return a
	}
	a.Comments = append(a.Comments, c)
	c.SetArt(a)
	return a
}

func (a *Art) RemoveComment(c *Comment) *Art {
	var removed bool
	if a.Comments, removed = removeRef(a.Comments, c, sameComment); removed && sameArt(c.Art, a) {
		c.SetArt(nil)
	}
	return a
}

func (a *Art) AddLike(u *User) *Art {
	if indexOf(a.Likes, u, sameUser) >= 0 {
		return a
	}
	a.Likes = append(a.Likes, u)
	u.AddLike(a)
	return a
}

func (a *Art) RemoveLike(u *User) *Art {
	var removed bool
	if a.Likes, removed = removeRef(a.Likes, u, sameUser); removed {
		u.RemoveLike(a)
	}
	return a
}
