package auth

import (
	"net/http"
	"testing"

	"artshare-api/internal/domain/gallery"
	"artshare-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type AuthSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	ann    *gallery.User
}

func (s *AuthSuite) SetupTest() {
	s.db = testutil.SetupTestDB(s.T())
	s.ann = testutil.CreateUser(s.T(), s.db, "ann@x.io", "Ann", gallery.RoleArtist)
	s.router = gin.New()
	s.router.POST("/login", Login)
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) TestLoginIssuesTokenWithRoles() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/login",
		gin.H{"email": "ann@x.io", "password": "secret"}, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	body := testutil.Decode[map[string]string](s.T(), w)
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(body["token"], claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testutil.JWTSecret), nil
	})
	s.Require().NoError(err)
	s.Equal(float64(s.ann.ID), claims["user_id"])
	s.Equal([]interface{}{"ROLE_ARTIST", "ROLE_USER"}, claims["roles"])
}

func (s *AuthSuite) TestLoginRejectsBadCredentials() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/login",
		gin.H{"email": "ann@x.io", "password": "wrong"}, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = testutil.DoJSON(s.T(), s.router, http.MethodPost, "/login",
		gin.H{"email": "nobody@x.io", "password": "secret"}, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = testutil.DoJSON(s.T(), s.router, http.MethodPost, "/login", gin.H{"email": "not-an-email"}, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AuthSuite) TestLoginRefusesPasswordlessAccount() {
	sub := "google-1"
	s.Require().NoError(gallery.CreateUser(s.db, &gallery.User{Email: "g@x.io", Pseudo: "G", GoogleSub: &sub}))

	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/login",
		gin.H{"email": "g@x.io", "password": "anything"}, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "Google")
}

func (s *AuthSuite) TestFindOrCreateGoogleUser() {
	created, err := findOrCreateGoogleUser(s.db, &googleIDClaims{Sub: "g-42", Email: "new@x.io", GivenName: "Neo"})
	s.Require().NoError(err)
	s.Equal("Neo", created.Pseudo)
	s.Nil(created.Password)

	again, err := findOrCreateGoogleUser(s.db, &googleIDClaims{Sub: "g-42", Email: "changed@x.io"})
	s.Require().NoError(err)
	s.Equal(created.ID, again.ID)

	linked, err := findOrCreateGoogleUser(s.db, &googleIDClaims{Sub: "g-ann", Email: "ann@x.io", EmailVerified: true})
	s.Require().NoError(err)
	s.Equal(s.ann.ID, linked.ID)
	s.Equal("g-ann", *linked.GoogleSub)

	_, err = findOrCreateGoogleUser(s.db, &googleIDClaims{Sub: "g-evil", Email: "ann@x.io"})
	s.ErrorIs(err, gallery.ErrEmailTaken)
}
