package controllers

import (
	"errors"
	"eventspark/src/db"
	"eventspark/src/models"
	"eventspark/src/types"
	"eventspark/src/utils"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyRegistered  = errors.New("user is already registered in the system. Please proceed to Log In")
)

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var muser models.User
	if err = db.
		WithContext(ctx).
		Preload("Roles").
		Where("email = ?", strings.ToLower(strings.TrimSpace(body.Email))).
		First(&muser).
		Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("error: %s\n", err.Error())
		}
		return nil, http.StatusUnauthorized, ErrInvalidCredentials
	}
	if !utils.CheckPassword(muser.PasswordHash, body.Password) {
		log.Printf("Failed login for user [%d]\n", muser.ID)
		return nil, http.StatusUnauthorized, ErrInvalidCredentials
	}

	if err := db.
		WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", muser.ID).
		Update("last_active", time.Now().UTC()).
		Error; err != nil {
		log.Printf("Error updating last_active for user [%d]: %s\n", muser.ID, err.Error())
	}

	signed, err := utils.GenerateJWT(muser.AsCurrentUser())
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", muser.ID, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &signed, http.StatusOK, nil
}

// AuthRegister creates an Attendee account.
func AuthRegister(ctx *gin.Context) (user *models.User, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))

	db := db.GetDb()
	var newUser models.User
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyRegistered
		}
		newUser = models.User{
			Email:        email,
			Name:         strings.TrimSpace(body.Name),
			PasswordHash: hash,
			Roles:        []models.Role{{Name: types.ROLE_ATTENDEE}},
		}
		if err := tx.Omit("Roles.*").Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			return nil, http.StatusConflict, err
		}
		return nil, http.StatusBadRequest, err
	}
	return &newUser, http.StatusCreated, nil
}
