package gallery

// ArtLike is one row of the art_user join table: user UserID likes art ArtID.
type ArtLike struct {
	ArtID  uint  `gorm:"primaryKey;autoIncrement:false"`
	Art    *Art  `gorm:"constraint:OnDelete:CASCADE;"`
	UserID uint  `gorm:"primaryKey;autoIncrement:false;index"`
	User   *User `gorm:"constraint:OnDelete:CASCADE;"`
}

func (ArtLike) TableName() string { return "art_user" }

// Follow records that FollowerID follows FollowedID.
type Follow struct {
	FollowerID uint  `gorm:"primaryKey;autoIncrement:false"`
	Follower   *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;"`
	FollowedID uint  `gorm:"primaryKey;autoIncrement:false;index"`
	Followed   *User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE;"`
}

func (Follow) TableName() string { return "user_follows" }

// Two references are the same entity when they are the same pointer or carry
// the same persisted id.
func sameUser(a, b *User) bool {
	return a == b || (a != nil && b != nil && a.ID != 0 && a.ID == b.ID)
}

func sameArt(a, b *Art) bool {
	return a == b || (a != nil && b != nil && a.ID != 0 && a.ID == b.ID)
}

func sameComment(a, b *Comment) bool {
	return a == b || (a != nil && b != nil && a.ID != 0 && a.ID == b.ID)
}

func sameCommission(a, b *Commission) bool {
	return a == b || (a != nil && b != nil && a.ID != 0 && a.ID == b.ID)
}

func indexOf[T any](list []*T, v *T, same func(a, b *T) bool) int {
	for i, item := range list {
		if same(item, v) {
			return i
		}
	}
	return -1
}

func removeRef[T any](list []*T, v *T, same func(a, b *T) bool) ([]*T, bool) {
	i := indexOf(list, v, same)
	if i < 0 {
		return list, false
	}
	return append(list[:i:i], list[i+1:]...), true
}

func userID(u *User) *uint {
	if u == nil || u.ID == 0 {
		return nil
	}
	id := u.ID
	return &id
}
