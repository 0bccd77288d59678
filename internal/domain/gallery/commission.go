package gallery

import "time"

// Commission is a request from a client to an artist. Anonyme hides the client
// from the artist's public page; the API still returns it to both parties.
type Commission struct {
	ID      uint    `gorm:"primaryKey"`
	Details string  `gorm:"type:text;not null"`
	Price   float64 `gorm:"not null;default:0"`
	NSFW    bool    `gorm:"column:nsfw;not null;default:false"`
	Anonyme bool    `gorm:"not null;default:false"`

	ArtistID *uint `gorm:"index"`
	Artist   *User `gorm:"foreignKey:ArtistID"`
	ClientID *uint `gorm:"index"`
	Client   *User `gorm:"foreignKey:ClientID"`

	PaidAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Commission) SetArtist(u *User) *Commission {
	m.Artist = u
	m.ArtistID = userID(u)
	return m
}

func (m *Commission) SetClient(u *User) *Commission {
	m.Client = u
	m.ClientID = userID(u)
	return m
}

// IsParty reports whether the user is the artist or the client.
func (m *Commission) IsParty(id uint) bool {
	return id != 0 && ((m.ArtistID != nil && *m.ArtistID == id) || (m.ClientID != nil && *m.ClientID == id))
}
