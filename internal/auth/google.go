package auth

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/Kyz7/landing/internal/config"
	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/logger"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var googleOauthConfig = &oauth2.Config{
	Scopes: []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	},
	Endpoint: google.Endpoint,
}

// ConfigureGoogle loads the OAuth client settings.
func ConfigureGoogle(cfg *config.Config) {
	googleOauthConfig.ClientID = cfg.GoogleClientID
	googleOauthConfig.ClientSecret = cfg.GoogleClientSecret
	googleOauthConfig.RedirectURL = cfg.GoogleRedirectURL
}

var (
	stateStore = make(map[string]time.Time)
	stateMutex sync.Mutex
)

func storeState(state string) {
	stateMutex.Lock()
	defer stateMutex.Unlock()

	now := time.Now()
	for k, v := range stateStore {
		if now.After(v) {
			delete(stateStore, k)
		}
	}
	stateStore[state] = now.Add(5 * time.Minute)
}

// validateState consumes state; each value is good for one callback.
func validateState(state string) bool {
	stateMutex.Lock()
	defer stateMutex.Unlock()

	expiry, exists := stateStore[state]
	if !exists {
		return false
	}
	delete(stateStore, state)
	return time.Now().Before(expiry)
}

func GoogleLogin(c *fiber.Ctx) error {
	if googleOauthConfig.ClientID == "" {
		return response.Error(c, fiber.StatusServiceUnavailable, "OAUTH_DISABLED", "Google login is not configured", nil)
	}
	state := uuid.NewString()
	storeState(state)
	return c.Redirect(googleOauthConfig.AuthCodeURL(state))
}

type googleUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleCallback signs in an existing user by their Google email. Accounts
// are never created here: a user must first be added to a company.
func GoogleCallback(c *fiber.Ctx) error {
	if !validateState(c.Query("state")) {
		return response.BadRequest(c, "Invalid state parameter", nil)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	token, err := googleOauthConfig.Exchange(ctx, c.Query("code"))
	if err != nil {
		logger.Log.Warn("google token exchange failed", zap.Error(err))
		return response.Unauthorized(c, "Failed to exchange token")
	}

	resp, err := googleOauthConfig.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return response.InternalError(c, "Failed to get user info")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response.InternalError(c, "Failed to get user info")
	}
	var info googleUser
	if err := json.Unmarshal(data, &info); err != nil || info.Email == "" {
		return response.InternalError(c, "Failed to read user info")
	}

	var u models.User
	if err := database.DB.Preload("Role").Where("email = ?", info.Email).First(&u).Error; err != nil {
		return response.Forbidden(c, "No account for this Google user")
	}
	tokens, err := IssueTokens(&u)
	if err != nil {
		return response.Forbidden(c, "Account is not active")
	}
	return response.Success(c, tokens, "Login successful")
}
