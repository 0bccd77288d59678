package gallery

import "time"

type Comment struct {
	ID      uint   `gorm:"primaryKey"`
	Content string `gorm:"type:text;not null"`

	UserID *uint `gorm:"index"`
	User   *User

	ArtID *uint `gorm:"index"`
	Art   *Art

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Comment) SetUser(u *User) *Comment {
	c.User = u
	c.UserID = userID(u)
	return c
}

func (c *Comment) SetArt(a *Art) *Comment {
	c.Art = a
	c.ArtID = nil
	if a != nil && a.ID != 0 {
		id := a.ID
		c.ArtID = &id
	}
	return c
}
