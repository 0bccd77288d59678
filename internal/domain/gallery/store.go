package gallery

import (
	"errors"
	"strings"

	"artshare-api/internal/domain/media"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Writes go through these helpers so gorm never upserts a loaded graph:
// associations are always omitted and join rows are managed explicitly.

func byID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

func CreateUser(tx *gorm.DB, u *User) error {
	if u.Roles == nil {
		u.Roles = datatypes.JSONSlice[Role]{}
	}
	u.Email = strings.TrimSpace(u.Email)
	return tx.Omit(clause.Associations).Create(u).Error
}

func SaveUser(tx *gorm.DB, u *User) error {
	return tx.Model(u).
		Omit(clause.Associations).
		Select("email", "password", "pseudo", "image_id", "roles", "google_sub").
		Updates(u).Error
}

func CreateArt(tx *gorm.DB, a *Art) error {
	return tx.Omit(clause.Associations).Create(a).Error
}

func SaveArt(tx *gorm.DB, a *Art) error {
	return tx.Model(a).
		Omit(clause.Associations).
		Select("title", "description", "artist_id", "image_id").
		Updates(a).Error
}

func CreateComment(tx *gorm.DB, c *Comment) error {
	return tx.Omit(clause.Associations).Create(c).Error
}

func SaveComment(tx *gorm.DB, c *Comment) error {
	return tx.Model(c).
		Omit(clause.Associations).
		Select("content", "user_id", "art_id").
		Updates(c).Error
}

func CreateCommission(tx *gorm.DB, m *Commission) error {
	return tx.Omit(clause.Associations).Create(m).Error
}

func SaveCommission(tx *gorm.DB, m *Commission) error {
	return tx.Model(m).
		Omit(clause.Associations).
		Select("details", "price", "nsfw", "anonyme", "artist_id", "client_id").
		Updates(m).Error
}

// EnsureEmailAvailable fails with ErrEmailTaken when another user owns email.
func EnsureEmailAvailable(tx *gorm.DB, email string, exceptID uint) error {
	var count int64
	q := tx.Model(&User{}).Where("email = ?", strings.TrimSpace(email))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

func FindUserRef(tx *gorm.DB, field string, id uint) (*User, error) {
	var u User
	if err := tx.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceError{Field: field, ID: id}
		}
		return nil, err
	}
	return &u, nil
}

func FindArtRef(tx *gorm.DB, field string, id uint) (*Art, error) {
	var a Art
	if err := tx.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceError{Field: field, ID: id}
		}
		return nil, err
	}
	return &a, nil
}

func FindImageRef(tx *gorm.DB, field string, id string) (*media.Object, error) {
	var o media.Object
	if err := tx.Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceError{Field: field, ID: id}
		}
		return nil, err
	}
	return &o, nil
}

// LoadUser reads a user with every relation, inverse sides wired in memory.
func LoadUser(db *gorm.DB, id uint) (*User, error) {
	var u User
	err := db.
		Preload("Image").
		Preload("Art", byID).
		Preload("Comments", byID).
		Preload("ArtistCommissions", byID).
		Preload("ClientCommissions", byID).
		First(&u, id).Error
	if err != nil {
		return nil, err
	}
	for _, a := range u.Art {
		a.SetArtist(&u)
	}
	for _, c := range u.Comments {
		c.SetUser(&u)
	}
	for _, m := range u.ArtistCommissions {
		m.SetArtist(&u)
	}
	for _, m := range u.ClientCommissions {
		m.SetClient(&u)
	}

	var likes []*Art
	if err := db.Joins("JOIN art_user ON art_user.art_id = arts.id").
		Where("art_user.user_id = ?", id).
		Order("arts.id ASC").
		Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, a := range likes {
		u.AddLike(a)
	}

	var followed, followers []*User
	if err := db.Joins("JOIN user_follows ON user_follows.followed_id = users.id").
		Where("user_follows.follower_id = ?", id).
		Order("users.id ASC").
		Find(&followed).Error; err != nil {
		return nil, err
	}
	if err := db.Joins("JOIN user_follows ON user_follows.follower_id = users.id").
		Where("user_follows.followed_id = ?", id).
		Order("users.id ASC").
		Find(&followers).Error; err != nil {
		return nil, err
	}
	for _, f := range followed {
		u.AddFollowed(f)
	}
	for _, f := range followers {
		u.AddFollower(f)
	}
	return &u, nil
}

// LoadArt reads an art with its artist, image, comments and likers.
func LoadArt(db *gorm.DB, id uint) (*Art, error) {
	var a Art
	err := db.
		Preload("Artist").
		Preload("Image").
		Preload("Comments", byID).
		Preload("Comments.User").
		First(&a, id).Error
	if err != nil {
		return nil, err
	}
	if a.Artist != nil {
		a.Artist.AddArt(&a)
	}
	for _, c := range a.Comments {
		c.SetArt(&a)
	}

	var likers []*User
	if err := db.Joins("JOIN art_user ON art_user.user_id = users.id").
		Where("art_user.art_id = ?", id).
		Order("users.id ASC").
		Find(&likers).Error; err != nil {
		return nil, err
	}
	for _, u := range likers {
		a.AddLike(u)
	}
	return &a, nil
}

func LoadComment(db *gorm.DB, id uint) (*Comment, error) {
	var c Comment
	if err := db.Preload("User").Preload("Art").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func LoadCommission(db *gorm.DB, id uint) (*Commission, error) {
	var m Commission
	if err := db.Preload("Artist").Preload("Client").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// PageIDs returns the ids of one page of model rows in ascending order.
func PageIDs(db *gorm.DB, model any, offset, limit int) ([]uint, error) {
	var ids []uint
	err := db.Model(model).Order("id ASC").Offset(offset).Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

// Like links u and a in memory and in art_user. Liking twice is a no-op.
func Like(tx *gorm.DB, u *User, a *Art) error {
	u.AddLike(a)
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&ArtLike{ArtID: a.ID, UserID: u.ID}).Error
}

func Unlike(tx *gorm.DB, u *User, a *Art) error {
	u.RemoveLike(a)
	return tx.Where("art_id = ? AND user_id = ?", a.ID, u.ID).Delete(&ArtLike{}).Error
}

// FollowUser makes follower follow followed, both in memory and in user_follows.
func FollowUser(tx *gorm.DB, follower, followed *User) error {
	if sameUser(follower, followed) {
		return ErrSelfFollow
	}
	follower.AddFollowed(followed)
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&Follow{FollowerID: follower.ID, FollowedID: followed.ID}).Error
}

func UnfollowUser(tx *gorm.DB, follower, followed *User) error {
	follower.RemoveFollowed(followed)
	return tx.Where("follower_id = ? AND followed_id = ?", follower.ID, followed.ID).Delete(&Follow{}).Error
}

// ReplaceLikes makes the set of arts liked by u exactly artIDs.
func ReplaceLikes(tx *gorm.DB, u *User, field string, artIDs []uint) error {
	want := make(map[uint]*Art, len(artIDs))
	for _, id := range artIDs {
		a, err := FindArtRef(tx, field, id)
		if err != nil {
			return err
		}
		want[id] = a
	}
	for _, a := range append([]*Art(nil), u.Likes...) {
		if _, keep := want[a.ID]; keep {
			delete(want, a.ID)
			continue
		}
		if err := Unlike(tx, u, a); err != nil {
			return err
		}
	}
	for _, id := range artIDs {
		if a, ok := want[id]; ok {
			if err := Like(tx, u, a); err != nil {
				return err
			}
			delete(want, id)
		}
	}
	return nil
}

// ReplaceLikers makes the set of users liking a exactly userIDs.
func ReplaceLikers(tx *gorm.DB, a *Art, field string, userIDs []uint) error {
	want := make(map[uint]*User, len(userIDs))
	for _, id := range userIDs {
		u, err := FindUserRef(tx, field, id)
		if err != nil {
			return err
		}
		want[id] = u
	}
	for _, u := range append([]*User(nil), a.Likes...) {
		if _, keep := want[u.ID]; keep {
			delete(want, u.ID)
			continue
		}
		if err := Unlike(tx, u, a); err != nil {
			return err
		}
	}
	for _, id := range userIDs {
		if u, ok := want[id]; ok {
			if err := Like(tx, u, a); err != nil {
				return err
			}
			delete(want, id)
		}
	}
	return nil
}

// ReplaceFollowed makes the set of users followed by u exactly userIDs.
func ReplaceFollowed(tx *gorm.DB, u *User, field string, userIDs []uint) error {
	want := make(map[uint]*User, len(userIDs))
	for _, id := range userIDs {
		if id == u.ID {
			return &ReferenceError{Field: field, ID: id}
		}
		other, err := FindUserRef(tx, field, id)
		if err != nil {
			return err
		}
		want[id] = other
	}
	for _, other := range append([]*User(nil), u.Followed...) {
		if _, keep := want[other.ID]; keep {
			delete(want, other.ID)
			continue
		}
		if err := UnfollowUser(tx, u, other); err != nil {
			return err
		}
	}
	for _, id := range userIDs {
		if other, ok := want[id]; ok {
			if err := FollowUser(tx, u, other); err != nil {
				return err
			}
			delete(want, id)
		}
	}
	return nil
}

// DeleteUser removes a user. Authored art, comments and commissions stay
// with a null owner; likes and follow edges go with the user.
func DeleteUser(tx *gorm.DB, id uint) error {
	if err := tx.First(&User{}, id).Error; err != nil {
		return err
	}
	nullify := []struct {
		model  any
		column string
	}{
		{&Art{}, "artist_id"},
		{&Comment{}, "user_id"},
		{&Commission{}, "artist_id"},
		{&Commission{}, "client_id"},
		{&media.Object{}, "uploader_id"},
	}
	for _, n := range nullify {
		if err := tx.Model(n.model).Where(n.column+" = ?", id).Update(n.column, nil).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("user_id = ?", id).Delete(&ArtLike{}).Error; err != nil {
		return err
	}
	if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&Follow{}).Error; err != nil {
		return err
	}
	return tx.Delete(&User{}, id).Error
}

// DeleteArt removes an art together with its comments and likes.
func DeleteArt(tx *gorm.DB, id uint) error {
	if err := tx.First(&Art{}, id).Error; err != nil {
		return err
	}
	if err := tx.Where("art_id = ?", id).Delete(&Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("art_id = ?", id).Delete(&ArtLike{}).Error; err != nil {
		return err
	}
	return tx.Delete(&Art{}, id).Error
}
