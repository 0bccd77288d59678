// Package views shapes domain entities into API payloads. Related entities
// are rendered as short references so responses never recurse.
package views

import (
	"time"

	"artshare-api/config"
	"artshare-api/internal/domain/billing"
	"artshare-api/internal/domain/gallery"
	"artshare-api/internal/domain/media"
)

type UserRef struct {
	ID     uint   `json:"id"`
	Pseudo string `json:"pseudo"`
}

type ArtRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type CommentRef struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

type MediaObject struct {
	ID          string `json:"id"`
	ContentURL  string `json:"content_url"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
}

func Media(o *media.Object) *MediaObject {
	if o == nil {
		return nil
	}
	return &MediaObject{
		ID:          o.ID,
		ContentURL:  o.ContentURL(config.MEDIA_PUBLIC_URL),
		ContentType: o.ContentType,
		Size:        o.Size,
	}
}

func userRef(u *gallery.User) *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Pseudo: u.Pseudo}
}

func artRef(a *gallery.Art) *ArtRef {
	if a == nil {
		return nil
	}
	return &ArtRef{ID: a.ID, Title: a.Title}
}

func userRefs(list []*gallery.User) []UserRef {
	out := make([]UserRef, 0, len(list))
	for _, u := range list {
		out = append(out, *userRef(u))
	}
	return out
}

func artRefs(list []*gallery.Art) []ArtRef {
	out := make([]ArtRef, 0, len(list))
	for _, a := range list {
		out = append(out, *artRef(a))
	}
	return out
}

func commissionIDs(list []*gallery.Commission) []uint {
	out := make([]uint, 0, len(list))
	for _, m := range list {
		out = append(out, m.ID)
	}
	return out
}

// UserBody is what a user replace returns: every readable field but the id.
type UserBody struct {
	Email             string       `json:"email"`
	Pseudo            string       `json:"pseudo"`
	Image             *MediaObject `json:"image"`
	Art               []ArtRef     `json:"art"`
	Likes             []ArtRef     `json:"likes"`
	Followed          []UserRef    `json:"followed"`
	Followers         []UserRef    `json:"followers"`
	Comments          []CommentRef `json:"comments"`
	ArtistCommissions []uint       `json:"artist_commissions"`
	ClientCommissions []uint       `json:"client_commissions"`
}

type User struct {
	ID uint `json:"id"`
	UserBody
}

// UserCreated is the whole create response: only the new id.
type UserCreated struct {
	ID uint `json:"id"`
}

type AdminUser struct {
	User
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func UserPut(u *gallery.User) UserBody {
	comments := make([]CommentRef, 0, len(u.Comments))
	for _, c := range u.Comments {
		comments = append(comments, CommentRef{ID: c.ID, Content: c.Content})
	}
	return UserBody{
		Email:             u.Email,
		Pseudo:            u.Pseudo,
		Image:             Media(u.Image),
		Art:               artRefs(u.Art),
		Likes:             artRefs(u.Likes),
		Followed:          userRefs(u.Followed),
		Followers:         userRefs(u.Followers),
		Comments:          comments,
		ArtistCommissions: commissionIDs(u.ArtistCommissions),
		ClientCommissions: commissionIDs(u.ClientCommissions),
	}
}

func UserRead(u *gallery.User) User {
	return User{ID: u.ID, UserBody: UserPut(u)}
}

func UserAdmin(u *gallery.User) AdminUser {
	return AdminUser{
		User:      UserRead(u),
		Roles:     gallery.RoleStrings(u.EffectiveRoles()),
		CreatedAt: u.CreatedAt,
	}
}

type ArtistRef struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	Pseudo string `json:"pseudo"`
}

type ArtBody struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Artist      *ArtistRef   `json:"artist"`
	Image       *MediaObject `json:"image"`
	Likes       []UserRef    `json:"likes"`
	Comments    []CommentRef `json:"comments"`
}

type Art struct {
	ID uint `json:"id"`
	ArtBody
}

func ArtPut(a *gallery.Art) ArtBody {
	var artist *ArtistRef
	if a.Artist != nil {
		artist = &ArtistRef{ID: a.Artist.ID, Email: a.Artist.Email, Pseudo: a.Artist.Pseudo}
	}
	comments := make([]CommentRef, 0, len(a.Comments))
	for _, c := range a.Comments {
		comments = append(comments, CommentRef{ID: c.ID, Content: c.Content})
	}
	return ArtBody{
		Title:       a.Title,
		Description: a.Description,
		Artist:      artist,
		Image:       Media(a.Image),
		Likes:       userRefs(a.Likes),
		Comments:    comments,
	}
}

func ArtRead(a *gallery.Art) Art {
	return Art{ID: a.ID, ArtBody: ArtPut(a)}
}

type CommentBody struct {
	Content string   `json:"content"`
	User    *UserRef `json:"user"`
	Art     *ArtRef  `json:"art"`
}

type Comment struct {
	ID uint `json:"id"`
	CommentBody
}

func CommentPut(c *gallery.Comment) CommentBody {
	return CommentBody{Content: c.Content, User: userRef(c.User), Art: artRef(c.Art)}
}

func CommentRead(c *gallery.Comment) Comment {
	return Comment{ID: c.ID, CommentBody: CommentPut(c)}
}

type Commission struct {
	ID      uint       `json:"id"`
	Details string     `json:"details"`
	Price   float64    `json:"price"`
	NSFW    bool       `json:"nsfw"`
	Anonyme bool       `json:"anonyme"`
	Artist  *UserRef   `json:"artist"`
	Client  *UserRef   `json:"client"`
	PaidAt  *time.Time `json:"paid_at"`
}

func CommissionRead(m *gallery.Commission) Commission {
	return Commission{
		ID:      m.ID,
		Details: m.Details,
		Price:   m.Price,
		NSFW:    m.NSFW,
		Anonyme: m.Anonyme,
		Artist:  userRef(m.Artist),
		Client:  userRef(m.Client),
		PaidAt:  m.PaidAt,
	}
}

type Payment struct {
	ID              uint      `json:"id"`
	CommissionID    uint      `json:"commission_id"`
	StripeSessionID string    `json:"stripe_session_id"`
	AmountEUR       float64   `json:"amount_eur"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func PaymentRead(p billing.Payment) Payment {
	return Payment{
		ID:              p.ID,
		CommissionID:    p.CommissionID,
		StripeSessionID: p.StripeSessionID,
		AmountEUR:       p.AmountEUR,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt,
	}
}
