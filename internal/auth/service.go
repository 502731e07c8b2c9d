package auth

import (
	"strings"

	"github.com/Kyz7/landing/internal/database"
	"github.com/Kyz7/landing/internal/models"
	"github.com/Kyz7/landing/internal/role"
	"github.com/Kyz7/landing/internal/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is not active")
)

// TokenPair is what every successful login hands back.
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         *models.User `json:"user,omitempty"`
}

// RegisterUser creates a local account in companyID with the named role.
func RegisterUser(companyID uint, name, email, password, roleName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, ErrEmailTaken
	}

	if roleName == "" {
		roleName = role.Viewer
	}
	roleID, err := role.IDByName(roleName)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := models.User{
		CompanyID: companyID,
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		Provider:  "local",
		Status:    "active",
		RoleID:    roleID,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}

	database.DB.Preload("Role").First(&u, u.ID)
	return &u, nil
}

func LoginUser(email, password string) (*TokenPair, error) {
	var user models.User
	err := database.DB.Preload("Role").Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.Password == "" || !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return IssueTokens(&user)
}

// IssueTokens signs an access token and stores a fresh refresh token.
func IssueTokens(user *models.User) (*TokenPair, error) {
	if user.Status != "" && user.Status != "active" {
		return nil, ErrInactiveUser
	}
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	accessToken, err := utils.GenerateJWT(user.ID, user.CompanyID, roleName)
	if err != nil {
		return nil, errors.Wrap(err, "sign access token")
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "store refresh token")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    900,
		User:         user,
	}, nil
}
