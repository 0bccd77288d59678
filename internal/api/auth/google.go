package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"

	"artshare-api/config"
	"artshare-api/database"
	"artshare-api/internal/api/apierr"
	"artshare-api/internal/domain/gallery"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GOOGLE_CLIENT_ID,
		ClientSecret: config.GOOGLE_CLIENT_SECRET,
		RedirectURL:  config.GOOGLE_REDIRECT_URL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func GoogleStart(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.SetCookie("oauth_state", state, 300, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		apierr.Respond(c, apierr.Field("code", "missing code/state"))
		return
	}
	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		apierr.Respond(c, apierr.Field("state", "invalid oauth state"))
		return
	}

	ctx := c.Request.Context()
	tok, err := googleOAuthConfig().Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to exchange code"})
		return
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing id_token"})
		return
	}

	claims, err := verifyGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var user *gallery.User
	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = findOrCreateGoogleUser(tx, claims)
		return err
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	tokenString, err := IssueToken(user)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	redirect := config.GOOGLE_FRONTEND_REDIRECT
	if redirect == "" {
		c.JSON(http.StatusOK, gin.H{"token": tokenString})
		return
	}
	c.Redirect(http.StatusFound, redirect+"?token="+url.QueryEscape(tokenString))
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

func verifyGoogleIDToken(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}
	idToken, err := provider.Verifier(&oidc.Config{ClientID: config.GOOGLE_CLIENT_ID}).Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}
	return &claims, nil
}

// findOrCreateGoogleUser matches on google_sub, then on a verified email
// (linking the account), and otherwise registers a password-less user.
func findOrCreateGoogleUser(tx *gorm.DB, gc *googleIDClaims) (*gallery.User, error) {
	var user gallery.User
	err := tx.Where("google_sub = ?", gc.Sub).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = tx.Where("email = ?", gc.Email).First(&user).Error
	switch {
	case err == nil:
		if !gc.EmailVerified {
			return nil, gallery.ErrEmailTaken
		}
		sub := gc.Sub
		user.GoogleSub = &sub
		if err := gallery.SaveUser(tx, &user); err != nil {
			return nil, err
		}
		log.Infof("linked google account to user %d", user.ID)
		return &user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	sub := gc.Sub
	user = gallery.User{
		Email:     gc.Email,
		Pseudo:    firstNonEmpty(gc.GivenName, gc.Name, gc.Email),
		GoogleSub: &sub,
	}
	if err := gallery.CreateUser(tx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
