package arts

// ArtRequest is used for both create and replace. Artist defaults to the
// caller on create; Likes, when present, replaces the set of likers.
type ArtRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description" binding:"required"`
	Artist      *uint   `json:"artist" binding:"omitempty,gt=0"`
	Image       *string `json:"image" binding:"omitempty,uuid"`
	Likes       []uint  `json:"likes"`
}
