package arts_test

import (
	"fmt"
	"net/http"
	"testing"

	routes "artshare-api/internal/app/http"
	"artshare-api/internal/domain/gallery"
	"artshare-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type artBody struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Artist      *struct {
		ID uint `json:"id"`
	} `json:"artist"`
	Likes []struct {
		ID uint `json:"id"`
	} `json:"likes"`
}

type ArtsSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	ann    *gallery.User
	bob    *gallery.User
}

func (s *ArtsSuite) SetupTest() {
	s.db = testutil.SetupTestDB(s.T())
	s.ann = testutil.CreateUser(s.T(), s.db, "a@x.com", "Ann", gallery.RoleArtist)
	s.bob = testutil.CreateUser(s.T(), s.db, "b@x.com", "Bob")
	s.router = gin.New()
	routes.RegisterRoutes(s.router)
}

func TestArtsSuite(t *testing.T) {
	suite.Run(t, new(ArtsSuite))
}

func (s *ArtsSuite) TestCreateThenReadRoundTrips() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/arts",
		gin.H{"title": "Cat", "description": "A cat"}, testutil.Token(s.T(), s.ann))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := testutil.Decode[artBody](s.T(), w)
	s.Require().NotNil(created.Artist)
	s.Equal(s.ann.ID, created.Artist.ID)

	w = testutil.DoJSON(s.T(), s.router, http.MethodGet, fmt.Sprintf("/arts/%d", created.ID), nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	read := testutil.Decode[artBody](s.T(), w)
	s.Equal("Cat", read.Title)
	s.Equal("A cat", read.Description)
}

func (s *ArtsSuite) TestCreateStripsHTML() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/arts",
		gin.H{"title": "<b>Cat</b>", "description": "<script>x()</script>A cat"}, testutil.Token(s.T(), s.ann))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := testutil.Decode[artBody](s.T(), w)
	s.Equal("Cat", created.Title)
	s.Equal("A cat", created.Description)
}

func (s *ArtsSuite) TestCreateWithUnknownArtistIsFieldError() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/arts",
		gin.H{"title": "Cat", "description": "A cat", "artist": 999}, testutil.Token(s.T(), s.ann))
	s.Require().Equal(http.StatusBadRequest, w.Code, w.Body.String())
	body := testutil.Decode[struct {
		Fields map[string][]string `json:"fields"`
	}](s.T(), w)
	s.Contains(body.Fields, "artist")
}

func (s *ArtsSuite) TestCreateForAnotherArtistForbidden() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/arts",
		gin.H{"title": "Cat", "description": "A cat", "artist": s.ann.ID}, testutil.Token(s.T(), s.bob))
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *ArtsSuite) TestCreateMissingDescription() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/arts",
		gin.H{"title": "Cat"}, testutil.Token(s.T(), s.ann))
	s.Require().Equal(http.StatusBadRequest, w.Code)
	body := testutil.Decode[struct {
		Fields map[string][]string `json:"fields"`
	}](s.T(), w)
	s.Contains(body.Fields, "description")
}

func (s *ArtsSuite) TestReplaceByArtistOnly() {
	art := testutil.CreateArt(s.T(), s.db, "Cat", s.ann)
	path := fmt.Sprintf("/arts/%d", art.ID)
	payload := gin.H{"title": "Big cat", "description": "A big cat", "artist": s.ann.ID}

	w := testutil.DoJSON(s.T(), s.router, http.MethodPut, path, payload, testutil.Token(s.T(), s.bob))
	s.Equal(http.StatusForbidden, w.Code)

	w = testutil.DoJSON(s.T(), s.router, http.MethodPut, path, payload, testutil.Token(s.T(), s.ann))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := testutil.Decode[map[string]any](s.T(), w)
	s.Equal("Big cat", body["title"])
	s.NotContains(body, "id")
}

func (s *ArtsSuite) TestReplaceCannotHandArtToAnotherUser() {
	art := testutil.CreateArt(s.T(), s.db, "Cat", s.ann)
	path := fmt.Sprintf("/arts/%d", art.ID)
	payload := gin.H{"title": "Cat", "description": "A cat", "artist": s.bob.ID}

	w := testutil.DoJSON(s.T(), s.router, http.MethodPut, path, payload, testutil.Token(s.T(), s.ann))
	s.Equal(http.StatusForbidden, w.Code)

	var stored gallery.Art
	s.Require().NoError(s.db.First(&stored, art.ID).Error)
	s.Require().NotNil(stored.ArtistID)
	s.Equal(s.ann.ID, *stored.ArtistID)

	admin := testutil.CreateUser(s.T(), s.db, "root@x.com", "Root", gallery.RoleAdmin)
	w = testutil.DoJSON(s.T(), s.router, http.MethodPut, path, payload, testutil.Token(s.T(), admin))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Require().NoError(s.db.First(&stored, art.ID).Error)
	s.Require().NotNil(stored.ArtistID)
	s.Equal(s.bob.ID, *stored.ArtistID)
}

func (s *ArtsSuite) TestReplaceMissingArtIsNotFound() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPut, "/arts/999",
		gin.H{"title": "x", "description": "y"}, testutil.Token(s.T(), s.ann))
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ArtsSuite) TestLikeIsIdempotent() {
	art := testutil.CreateArt(s.T(), s.db, "Cat", s.ann)
	path := fmt.Sprintf("/arts/%d/likes", art.ID)

	for i := 0; i < 2; i++ {
		w := testutil.DoJSON(s.T(), s.router, http.MethodPost, path, nil, testutil.Token(s.T(), s.bob))
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		body := testutil.Decode[artBody](s.T(), w)
		s.Require().Len(body.Likes, 1)
		s.Equal(s.bob.ID, body.Likes[0].ID)
	}

	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, fmt.Sprintf("/users/%d", s.bob.ID), nil, "")
	bob := testutil.Decode[struct {
		Likes []struct {
			ID    uint   `json:"id"`
			Title string `json:"title"`
		} `json:"likes"`
	}](s.T(), w)
	s.Require().Len(bob.Likes, 1)
	s.Equal("Cat", bob.Likes[0].Title)

	w = testutil.DoJSON(s.T(), s.router, http.MethodDelete, path, nil, testutil.Token(s.T(), s.bob))
	s.Require().Equal(http.StatusOK, w.Code)
	s.Empty(testutil.Decode[artBody](s.T(), w).Likes)
}

func (s *ArtsSuite) TestListReturnsArray() {
	testutil.CreateArt(s.T(), s.db, "One", s.ann)
	testutil.CreateArt(s.T(), s.db, "Two", nil)

	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/arts", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	list := testutil.Decode[[]artBody](s.T(), w)
	s.Require().Len(list, 2)
	s.Equal("One", list[0].Title)
	s.Nil(list[1].Artist)
}
