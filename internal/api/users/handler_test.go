package users_test

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	routes "artshare-api/internal/app/http"
	"artshare-api/internal/domain/gallery"
	"artshare-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type UsersSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	ann    *gallery.User
	admin  *gallery.User
}

func (s *UsersSuite) SetupTest() {
	s.db = testutil.SetupTestDB(s.T())
	s.ann = testutil.CreateUser(s.T(), s.db, "ann@x.io", "Ann", gallery.RoleArtist)
	s.admin = testutil.CreateUser(s.T(), s.db, "root@x.io", "Root", gallery.RoleAdmin)
	s.router = gin.New()
	routes.RegisterRoutes(s.router)
}

func TestUsersSuite(t *testing.T) {
	suite.Run(t, new(UsersSuite))
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (s *UsersSuite) TestCreateReturnsOnlyID() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/users",
		gin.H{"email": "bob@x.io", "password": "hunter2", "pseudo": "Bob"}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	body := testutil.Decode[map[string]any](s.T(), w)
	s.Len(body, 1)
	s.NotZero(body["id"])

	var stored gallery.User
	s.Require().NoError(s.db.Where("email = ?", "bob@x.io").First(&stored).Error)
	s.Require().NotNil(stored.Password)
	s.NotEqual("hunter2", *stored.Password)
	s.Equal([]gallery.Role{gallery.RoleUser}, stored.EffectiveRoles())
}

func (s *UsersSuite) TestCreateIgnoresRoles() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/users",
		gin.H{"email": "eve@x.io", "password": "pw", "pseudo": "Eve", "roles": []string{"ROLE_ADMIN"}}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var stored gallery.User
	s.Require().NoError(s.db.Where("email = ?", "eve@x.io").First(&stored).Error)
	s.False(gallery.HasRole(stored.EffectiveRoles(), gallery.RoleAdmin))
}

func (s *UsersSuite) TestCreateDuplicateEmailConflicts() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/users",
		gin.H{"email": "ann@x.io", "password": "pw", "pseudo": "Other"}, "")
	s.Equal(http.StatusConflict, w.Code, w.Body.String())
}

func (s *UsersSuite) TestCreateBlankPseudoIsFieldError() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/users",
		gin.H{"email": "bob@x.io", "password": "pw", "pseudo": "   "}, "")
	s.Require().Equal(http.StatusBadRequest, w.Code, w.Body.String())

	body := testutil.Decode[struct {
		Fields map[string][]string `json:"fields"`
	}](s.T(), w)
	s.Contains(body.Fields, "pseudo")
}

func (s *UsersSuite) TestCreateMissingPasswordIsFieldError() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/users",
		gin.H{"email": "bob@x.io", "pseudo": "Bob"}, "")
	s.Require().Equal(http.StatusBadRequest, w.Code, w.Body.String())

	body := testutil.Decode[struct {
		Fields map[string][]string `json:"fields"`
	}](s.T(), w)
	s.Contains(body.Fields, "password")
}

func (s *UsersSuite) TestOverlongPasswordIsFieldError() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/users",
		gin.H{"email": "bob@x.io", "password": strings.Repeat("p", 100), "pseudo": "Bob"}, "")
	s.Require().Equal(http.StatusBadRequest, w.Code, w.Body.String())
	body := testutil.Decode[struct {
		Fields map[string][]string `json:"fields"`
	}](s.T(), w)
	s.Contains(body.Fields, "password")

	// 30 runes but 90 bytes: passes the length tag, rejected by bcrypt
	w = testutil.DoJSON(s.T(), s.router, http.MethodPost, "/users",
		gin.H{"email": "bob@x.io", "password": strings.Repeat("€", 30), "pseudo": "Bob"}, "")
	s.Require().Equal(http.StatusBadRequest, w.Code, w.Body.String())

	w = testutil.DoJSON(s.T(), s.router, http.MethodPut, "/users/"+itoa(s.ann.ID),
		gin.H{"email": "ann@x.io", "pseudo": "Ann", "password": strings.Repeat("p", 100)}, testutil.Token(s.T(), s.ann))
	s.Equal(http.StatusBadRequest, w.Code, w.Body.String())
}

func (s *UsersSuite) TestReadHidesPasswordAndRoles() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/users/"+itoa(s.ann.ID), nil, "")
	s.Require().Equal(http.StatusOK, w.Code)

	body := testutil.Decode[map[string]any](s.T(), w)
	s.Equal("Ann", body["pseudo"])
	s.NotContains(body, "password")
	s.NotContains(body, "roles")
}

func (s *UsersSuite) TestMissingUserIsNotFound() {
	token := testutil.Token(s.T(), s.admin)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var body any
		if method == http.MethodPut {
			body = gin.H{"email": "x@x.io", "pseudo": "X"}
		}
		w := testutil.DoJSON(s.T(), s.router, method, "/users/999", body, token)
		s.Equal(http.StatusNotFound, w.Code, method)
	}
}

func (s *UsersSuite) TestReplaceSelf() {
	token := testutil.Token(s.T(), s.ann)
	w := testutil.DoJSON(s.T(), s.router, http.MethodPut, "/users/"+itoa(s.ann.ID),
		gin.H{"email": "ann@new.io", "pseudo": "Annie"}, token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	body := testutil.Decode[map[string]any](s.T(), w)
	s.Equal("Annie", body["pseudo"])
	s.NotContains(body, "id")
	s.NotContains(body, "roles")

	var stored gallery.User
	s.Require().NoError(s.db.First(&stored, s.ann.ID).Error)
	s.Equal("ann@new.io", stored.Email)
	s.Equal(*s.ann.Password, *stored.Password)
}

func (s *UsersSuite) TestReplaceOtherUserForbidden() {
	bob := testutil.CreateUser(s.T(), s.db, "bob@x.io", "Bob")
	w := testutil.DoJSON(s.T(), s.router, http.MethodPut, "/users/"+itoa(s.ann.ID),
		gin.H{"email": "ann@x.io", "pseudo": "Hacked"}, testutil.Token(s.T(), bob))
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *UsersSuite) TestReplaceToTakenEmailConflicts() {
	testutil.CreateUser(s.T(), s.db, "bob@x.io", "Bob")
	w := testutil.DoJSON(s.T(), s.router, http.MethodPut, "/users/"+itoa(s.ann.ID),
		gin.H{"email": "bob@x.io", "pseudo": "Ann"}, testutil.Token(s.T(), s.ann))
	s.Equal(http.StatusConflict, w.Code)
}

func (s *UsersSuite) TestWritesRequireToken() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodDelete, "/users/"+itoa(s.ann.ID), nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *UsersSuite) TestDeleteKeepsArtWithoutArtist() {
	art := testutil.CreateArt(s.T(), s.db, "Cat", s.ann)
	bob := testutil.CreateUser(s.T(), s.db, "bob@x.io", "Bob")
	s.Require().NoError(gallery.Like(s.db, bob, art))

	w := testutil.DoJSON(s.T(), s.router, http.MethodDelete, "/users/"+itoa(s.ann.ID), nil, testutil.Token(s.T(), s.ann))
	s.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())

	var stored gallery.Art
	s.Require().NoError(s.db.First(&stored, art.ID).Error)
	s.Nil(stored.ArtistID)

	w = testutil.DoJSON(s.T(), s.router, http.MethodDelete, "/users/"+itoa(bob.ID), nil, testutil.Token(s.T(), s.admin))
	s.Require().Equal(http.StatusNoContent, w.Code)

	var likes int64
	s.Require().NoError(s.db.Model(&gallery.ArtLike{}).Where("art_id = ?", art.ID).Count(&likes).Error)
	s.Zero(likes)
}

func (s *UsersSuite) TestFollowIsSymmetric() {
	bob := testutil.CreateUser(s.T(), s.db, "bob@x.io", "Bob")
	path := "/users/" + itoa(s.ann.ID) + "/follow"

	for i := 0; i < 2; i++ {
		w := testutil.DoJSON(s.T(), s.router, http.MethodPost, path, nil, testutil.Token(s.T(), bob))
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}

	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/users/"+itoa(s.ann.ID), nil, "")
	ann := testutil.Decode[struct {
		Followers []struct{ ID uint } `json:"followers"`
	}](s.T(), w)
	s.Require().Len(ann.Followers, 1)
	s.Equal(bob.ID, ann.Followers[0].ID)

	w = testutil.DoJSON(s.T(), s.router, http.MethodGet, "/users/"+itoa(bob.ID), nil, "")
	b := testutil.Decode[struct {
		Followed []struct{ ID uint } `json:"followed"`
	}](s.T(), w)
	s.Require().Len(b.Followed, 1)
	s.Equal(s.ann.ID, b.Followed[0].ID)

	w = testutil.DoJSON(s.T(), s.router, http.MethodDelete, path, nil, testutil.Token(s.T(), bob))
	s.Require().Equal(http.StatusOK, w.Code)
	after := testutil.Decode[struct {
		Followers []struct{ ID uint } `json:"followers"`
	}](s.T(), w)
	s.Empty(after.Followers)
}

func (s *UsersSuite) TestFollowSelfRejected() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodPost, "/users/"+itoa(s.ann.ID)+"/follow", nil, testutil.Token(s.T(), s.ann))
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *UsersSuite) TestMe() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/me", nil, testutil.Token(s.T(), s.ann))
	s.Require().Equal(http.StatusOK, w.Code)
	body := testutil.Decode[map[string]any](s.T(), w)
	s.Equal("ann@x.io", body["email"])
}

func (s *UsersSuite) TestListPaginates() {
	testutil.CreateUser(s.T(), s.db, "bob@x.io", "Bob")
	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/users?page=2&limit=2", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	list := testutil.Decode[[]map[string]any](s.T(), w)
	s.Require().Len(list, 1)
	s.Equal("Bob", list[0]["pseudo"])
}

func (s *UsersSuite) TestAdminListIncludesRoles() {
	w := testutil.DoJSON(s.T(), s.router, http.MethodGet, "/admin/users", nil, testutil.Token(s.T(), s.admin))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	list := testutil.Decode[[]struct {
		Email string   `json:"email"`
		Roles []string `json:"roles"`
	}](s.T(), w)
	s.Require().Len(list, 2)
	s.Equal([]string{"ROLE_ARTIST", "ROLE_USER"}, list[0].Roles)

	w = testutil.DoJSON(s.T(), s.router, http.MethodGet, "/admin/users", nil, testutil.Token(s.T(), s.ann))
	s.Equal(http.StatusForbidden, w.Code)
}
