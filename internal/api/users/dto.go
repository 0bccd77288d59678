package users

// CreateUserRequest is the registration payload. Relations are given by id.
type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required,email,max=180"`
	Password string  `json:"password" binding:"required,max=72"`
	Pseudo   string  `json:"pseudo" binding:"required,max=255"`
	Image    *string `json:"image" binding:"omitempty,uuid"`
	Followed []uint  `json:"followed"`
	Likes    []uint  `json:"likes"`
}

// ReplaceUserRequest replaces every writable field. An omitted password
// keeps the current one; omitted relation lists are left untouched.
type ReplaceUserRequest struct {
	Email    string  `json:"email" binding:"required,email,max=180"`
	Password *string `json:"password" binding:"omitempty,min=1,max=72"`
	Pseudo   string  `json:"pseudo" binding:"required,max=255"`
	Image    *string `json:"image" binding:"omitempty,uuid"`
	Followed []uint  `json:"followed"`
	Likes    []uint  `json:"likes"`
}
