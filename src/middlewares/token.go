package middlewares

import (
	"net/http"

	"voyagemate/src/types"
	"voyagemate/src/utils"

	"github.com/gin-gonic/gin"
)

func parseToken(token string) (uint, *types.Claims, error) {
	return utils.ParseJWT(jwtSecret(), token)
}

// OptionalAuth lets guests through. A request that does send a bearer token
// must send a valid one, otherwise it is rejected rather than silently
// downgraded to a guest.
func OptionalAuth(ctx *gin.Context) {
	if ctx.GetHeader("Authorization") == "" {
		ctx.Next()
		return
	}
	user, err := authenticate(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated."})
		return
	}
	setUser(ctx, user)
	ctx.Next()
}
