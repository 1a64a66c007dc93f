package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gbergara/trip-planner/pkg/models"
	"github.com/gbergara/trip-planner/pkg/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUserInfo represents Google user information
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (s *Server) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.config.OAuth.Google.ClientID,
		ClientSecret: s.config.OAuth.Google.ClientSecret,
		RedirectURL:  s.config.OAuth.Google.RedirectURL,
		Scopes:       s.config.OAuth.Google.Scopes,
		Endpoint:     google.Endpoint,
	}
}

// handleGoogleLogin initiates the Google OAuth2 login flow
func (s *Server) handleGoogleLogin(c *gin.Context) {
	if !s.config.OAuth.Google.Enabled() {
		c.JSON(http.StatusNotImplemented, utils.NewErrorResponse("Google login is not configured"))
		return
	}

	// Generate state parameter for CSRF protection
	state := s.tokens.GenerateGuestSessionID()

	session := sessions.Default(c)
	session.Set("oauth_state", state)
	if err := session.Save(); err != nil {
		s.logger.WithError(err).Error("Failed to save OAuth2 state to session")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Internal server error"))
		return
	}

	s.logger.LogAuth("", "", "login_initiated", true)
	c.Redirect(http.StatusTemporaryRedirect, s.oauthConfig().AuthCodeURL(state))
}

// handleGoogleCallback handles the OAuth2 callback
func (s *Server) handleGoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	errorParam := c.Query("error")

	if errorParam != "" {
		s.logger.LogAuth("", "", "callback_error", false)
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(fmt.Sprintf("OAuth2 error: %s", errorParam)))
		return
	}

	// Validate state parameter
	session := sessions.Default(c)
	sessionState := session.Get("oauth_state")
	if sessionState == nil || sessionState.(string) != state {
		s.logger.LogSecurity("oauth_state_mismatch", "", c.ClientIP(), map[string]interface{}{
			"received_state": state,
		})
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid state parameter"))
		return
	}
	session.Delete("oauth_state")
	session.Save()

	// Exchange code for a token and fetch the user's profile
	conf := s.oauthConfig()
	token, err := conf.Exchange(c.Request.Context(), code)
	if err != nil {
		s.logger.WithError(err).Error("Failed to exchange code for token")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to authenticate"))
		return
	}

	userInfo, err := s.fetchGoogleUserInfo(c, conf, token)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get user info")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get user information"))
		return
	}

	if !s.validator.ValidateEmail(userInfo.Email) || !userInfo.VerifiedEmail {
		s.logger.LogAuth("", userInfo.Email, "unverified_email", false)
		c.JSON(http.StatusForbidden, utils.NewErrorResponse("A verified email address is required"))
		return
	}

	// Enforce the login allowlist whenever active entries exist,
	// regardless of how they were seeded
	restricted, err := s.repo.HasAllowedAccounts()
	if err != nil {
		s.logger.WithError(err).Error("Allowlist check failed")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Internal server error"))
		return
	}
	if restricted {
		allowed, err := s.repo.IsAccountAllowed(userInfo.Email)
		if err != nil {
			s.logger.WithError(err).Error("Allowlist check failed")
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Internal server error"))
			return
		}
		if !allowed {
			s.logger.LogSecurity("account_not_allowed", "", c.ClientIP(), map[string]interface{}{
				"email": userInfo.Email,
			})
			c.JSON(http.StatusForbidden, utils.NewErrorResponse("This account is not allowed to sign in"))
			return
		}
	}

	user, err := s.createOrUpdateUser(userInfo)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create or update user")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create user"))
		return
	}

	jwtToken, err := s.jwtManager.GenerateToken(user.ID.String(), user.Email)
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate JWT token")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to generate token"))
		return
	}

	// The token travels in an HTTP-only cookie, never in the body.
	maxAge := s.config.Security.JWTExpirationHours * 3600
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.config.Security.AuthCookieName, jwtToken, maxAge, "/", "",
		s.config.Security.SessionCookieSecure, true)

	s.logger.LogAuth(user.ID.String(), user.Email, "login_success", true)
	c.JSON(http.StatusOK, utils.NewSuccessResponse(user, "Login successful"))
}

func (s *Server) fetchGoogleUserInfo(c *gin.Context, conf *oauth2.Config, token *oauth2.Token) (*GoogleUserInfo, error) {
	client := conf.Client(c.Request.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request failed with status: %d", resp.StatusCode)
	}

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, err
	}
	return &userInfo, nil
}

// createOrUpdateUser creates a new user or refreshes an existing one
// from the Google profile.
func (s *Server) createOrUpdateUser(info *GoogleUserInfo) (*models.User, error) {
	now := time.Now().UTC()

	existing, err := s.repo.GetUserByGoogleID(info.ID)
	if err == nil {
		existing.Email = info.Email
		existing.Name = info.Name
		existing.GivenName = info.GivenName
		existing.FamilyName = info.FamilyName
		existing.Picture = info.Picture
		existing.LastLogin = &now
		if err := s.repo.UpdateUser(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	// Link by email if the account existed before the Google ID changed
	existing, err = s.repo.GetUserByEmail(info.Email)
	if err == nil {
		existing.GoogleID = info.ID
		existing.Name = info.Name
		existing.GivenName = info.GivenName
		existing.FamilyName = info.FamilyName
		existing.Picture = info.Picture
		existing.LastLogin = &now
		if err := s.repo.UpdateUser(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	user := &models.User{
		GoogleID:          info.ID,
		Email:             info.Email,
		Name:              info.Name,
		GivenName:         info.GivenName,
		FamilyName:        info.FamilyName,
		Picture:           info.Picture,
		PreferredLanguage: s.translator.Default(),
		IsActive:          true,
		LastLogin:         &now,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// handleLogout clears the auth cookie and the session
func (s *Server) handleLogout(c *gin.Context) {
	if user, ok := s.getCurrentUser(c); ok {
		s.logger.LogAuth(user.ID.String(), user.Email, "logout", true)
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.SetCookie(s.config.Security.AuthCookieName, "", -1, "/", "",
		s.config.Security.SessionCookieSecure, true)

	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Logged out successfully"))
}

// handleMe returns the acting identity: the authenticated user, or the
// guest session for anonymous visitors.
func (s *Server) handleMe(c *gin.Context) {
	if user, ok := s.getCurrentUser(c); ok {
		c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
			"authenticated": true,
			"user":          user,
		}, ""))
		return
	}

	owner := s.currentOwner(c)
	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"authenticated":    false,
		"guest_session_id": owner.GuestSessionID,
	}, ""))
}
