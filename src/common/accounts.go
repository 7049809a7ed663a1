package common

import (
	"errors"
	"strings"
	"time"

	"voyagemate/src/models"
	"voyagemate/src/types"
	"voyagemate/src/utils"

	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func RegisterUser(db *gorm.DB, body *types.RegisterUserRequestBody, secret []byte, ttl time.Duration, now time.Time) (*AuthResult, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewValidationError("email", "has already been taken")
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{Name: strings.TrimSpace(body.Name), Email: email, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError("email", "has already been taken")
		}
		return nil, err
	}
	token, err := utils.GenerateJWT(secret, user.ID, user.Name, user.Email, ttl, now)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: &user}, nil
}

func Login(db *gorm.DB, body *types.LoginRequestBody, secret []byte, ttl time.Duration, now time.Time) (*AuthResult, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(body.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, body.Password) {
		return nil, ErrInvalidCredentials
	}
	token, err := utils.GenerateJWT(secret, user.ID, user.Name, user.Email, ttl, now)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: &user}, nil
}
