package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"artshare-api/config"
	"artshare-api/database"
	"artshare-api/internal/api/apierr"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		apierr.Respond(c, apierr.Validation(err))
		return
	}

	var user gallery.User
	err := database.DB.WithContext(c.Request.Context()).
		Where("email = ?", strings.TrimSpace(input.Email)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	if user.Password == nil || *user.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := IssueToken(&user)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

// IssueToken signs the session JWT read back by middleware.AuthMiddleware.
func IssueToken(user *gallery.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"roles":   gallery.RoleStrings(user.EffectiveRoles()),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	return t.SignedString([]byte(config.JWT_SECRET))
}

// HashPassword is the bcrypt hash stored in users.password.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apierr.Field("password", "password must be at most 72 bytes")
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
