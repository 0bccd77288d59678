package gallery

import (
	"time"

	"artshare-api/internal/domain/media"

	"gorm.io/datatypes"
)

type User struct {
	ID        uint                      `gorm:"primaryKey"`
	Email     string                    `gorm:"size:180;not null;uniqueIndex:idx_users_email"`
	Roles     datatypes.JSONSlice[Role] `gorm:"not null"`
	Password  *string
	Pseudo    string  `gorm:"size:255;not null"`
	GoogleSub *string `gorm:"uniqueIndex:idx_users_google_sub"`

	ImageID *string       `gorm:"type:uuid;index"`
	Image   *media.Object `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	Art               []*Art        `gorm:"foreignKey:ArtistID;constraint:OnDelete:SET NULL;"`
	Comments          []*Comment    `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL;"`
	ArtistCommissions []*Commission `gorm:"foreignKey:ArtistID;constraint:OnDelete:SET NULL;"`
	ClientCommissions []*Commission `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL;"`

	// many-to-many sides, stored in art_user and user_follows
	Likes     []*Art  `gorm:"-"`
	Followed  []*User `gorm:"-"`
	Followers []*User `gorm:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveRoles is the role list a caller is authorised with.
func (u *User) EffectiveRoles() []Role {
	return EffectiveRoles(u.Roles)
}

func (u *User) SetImage(img *media.Object) *User {
	u.Image = img
	u.ImageID = nil
	if img != nil {
		id := img.ID
		u.ImageID = &id
	}
	return u
}

func (u *User) AddArt(a *Art) *User {
	if indexOf(u.Art, a, sameArt) >= 0 {
		return u
	}
	u.Art = append(u.Art, a)
	a.SetArtist(u)
	return u
}

func (u *User) RemoveArt(a *Art) *User {
	var removed bool
	if u.Art, removed = removeRef(u.Art, a, sameArt); removed && sameUser(a.Artist, u) {
		a.SetArtist(nil)
	}
	return u
}

func (u *User) AddComment(c *Comment) *User {
	if indexOf(u.Comments, c, sameComment) >= 0 {
		return u
	}
	u.Comments = append(u.Comments, c)
	c.SetUser(u)
	return u
}

func (u *User) RemoveComment(c *Comment) *User {
	var removed bool
	if u.Comments, removed = removeRef(u.Comments, c, sameComment); removed && sameUser(c.User, u) {
		c.SetUser(nil)
	}
	return u
}

func (u *User) AddArtistCommission(m *Commission) *User {
	if indexOf(u.ArtistCommissions, m, sameCommission) >= 0 {
		return u
	}
	u.ArtistCommissions = append(u.ArtistCommissions, m)
	m.SetArtist(u)
	return u
}

func (u *User) RemoveArtistCommission(m *Commission) *User {
	var removed bool
	if u.ArtistCommissions, removed = removeRef(u.ArtistCommissions, m, sameCommission); removed && sameUser(m.Artist, u) {
		m.SetArtist(nil)
	}
	return u
}

func (u *User) AddClientCommission(m *Commission) *User {
	if indexOf(u.ClientCommissions, m, sameCommission) >= 0 {
		return u
	}
	u.ClientCommissions = append(u.ClientCommissions, m)
	m.SetClient(u)
	return u
}

func (u *User) RemoveClientCommission(m *Commission) *User {
	var removed bool
	if u.ClientCommissions, removed = removeRef(u.ClientCommissions, m, sameCommission); removed && sameUser(m.Client, u) {
		m.SetClient(nil)
	}
	return u
}

func (u *User) AddLike(a *Art) *User {
	if indexOf(u.Likes, a, sameArt) >= 0 {
		return u
	}
	u.Likes = append(u.Likes, a)
	a.AddLike(u)
	return u
}

func (u *User) RemoveLike(a *Art) *User {
	var removed bool
	if u.Likes, removed = removeRef(u.Likes, a, sameArt); removed {
		a.RemoveLike(u)
	}
	return u
}

func (u *User) AddFollowed(other *User) *User {
	if indexOf(u.Followed, other, sameUser) >= 0 {
		return u
	}
	u.Followed = append(u.Followed, other)
	other.AddFollower(u)
	return u
}

func (u *User) RemoveFollowed(other *User) *User {
	var removed bool
	if u.Followed, removed = removeRef(u.Followed, other, sameUser); removed {
		other.RemoveFollower(u)
	}
	return u
}

func (u *User) AddFollower(other *User) *User {
	if indexOf(u.Followers, other, sameUser) >= 0 {
		return u
	}
	u.Followers = append(u.Followers, other)
	other.AddFollowed(u)
	return u
}

func (u *User) RemoveFollower(other *User) *User {
	var removed bool
	if u.Followers, removed = removeRef(u.Followers, other, sameUser); removed {
		other.RemoveFollowed(u)
	}
	return u
}
