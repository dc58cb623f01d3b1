package middlewares

import (
	"eventspark/src/types"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(ctx *gin.Context) {
	reqToken, ok := bearerToken(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": types.ErrUnauthenticated.Error()})
		return
	}
	user, err := authenticate(ctx, reqToken)
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": types.ErrUnauthenticated.Error()})
		return
	}
	setCurrentUser(ctx, user)
}

// OptionalAuth identifies the caller when a valid token is present and never aborts.
func OptionalAuth(ctx *gin.Context) {
	reqToken, ok := bearerToken(ctx)
	if !ok {
		return
	}
	user, err := authenticate(ctx, reqToken)
	if err != nil {
		return
	}
	setCurrentUser(ctx, user)
}

func setCurrentUser(ctx *gin.Context, user types.CurrentUser) {
	ctx.Set("id", user.ID)
	ctx.Set("email", user.Email)
	ctx.Set("name", user.Name)
	ctx.Set("roles", user.Roles)
}

// CurrentUser returns the identity stored by AuthMiddleware or OptionalAuth. Anonymous callers get the zero value.
func CurrentUser(ctx *gin.Context) types.CurrentUser {
	return types.CurrentUser{
		ID:    ctx.GetUint("id"),
		Email: ctx.GetString("email"),
		Name:  ctx.GetString("name"),
		Roles: ctx.GetStringSlice("roles"),
	}
}
