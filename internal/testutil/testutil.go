// Package testutil wires an in-memory sqlite database and request helpers
// for package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"artshare-api/config"
	"artshare-api/database"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const JWTSecret = "test-secret"

// SetupTestDB opens a private in-memory database, migrates it and installs
// it as database.DB until the test ends.
func SetupTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	prevSecret := config.JWT_SECRET
	config.JWT_SECRET = JWTSecret
	t.Cleanup(func() {
		database.DB = prev
		config.JWT_SECRET = prevSecret
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user whose password is "secret".
func CreateUser(t testing.TB, db *gorm.DB, email, pseudo string, roles ...gallery.Role) *gallery.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	u := &gallery.User{Email: email, Pseudo: pseudo, Password: &hashed, Roles: roles}
	require.NoError(t, gallery.CreateUser(db, u))
	return u
}

func CreateArt(t testing.TB, db *gorm.DB, title string, artist *gallery.User) *gallery.Art {
	t.Helper()
	a := &gallery.Art{Title: title, Description: title + " description"}
	if artist != nil {
		a.SetArtist(artist)
	}
	require.NoError(t, gallery.CreateArt(db, a))
	return a
}

// Token signs a JWT for u the same way the login endpoint does.
func Token(t testing.TB, u *gallery.User) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"roles":   gallery.RoleStrings(u.EffectiveRoles()),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(JWTSecret))
	require.NoError(t, err)
	return s
}

// DoJSON sends body as JSON (nil for none) with an optional bearer token.
func DoJSON(t testing.TB, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Decode unmarshals a recorded JSON response into T.
func Decode[T any](t testing.TB, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func init() {
	gin.SetMode(gin.TestMode)
}
