package middlewares

import (
	"eventspark/src/db"
	"eventspark/src/models"
	"eventspark/src/types"
	"eventspark/src/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

func bearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// authenticate resolves the token subject against the users table so deleted users lose access
// and role changes apply without a new token.
func authenticate(ctx *gin.Context, reqToken string) (types.CurrentUser, error) {
	uid, _, err := utils.ParseJWT(reqToken)
	if err != nil {
		return types.CurrentUser{}, err
	}
	var user models.User
	if err := db.GetDb().
		WithContext(ctx).
		Preload("Roles").
		Where("id = ?", uid).
		First(&user).
		Error; err != nil {
		return types.CurrentUser{}, err
	}
	return user.AsCurrentUser(), nil
}
