package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"voyagemate/src/config"
	"voyagemate/src/db"
	"voyagemate/src/logger"
	"voyagemate/src/models"
	"voyagemate/src/models/scopes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errMissingToken = errors.New("missing bearer token")

func jwtSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

// AuthMiddleware rejects requests without a valid bearer token for an
// existing user. On success it sets "id", "email" and "name".
func AuthMiddleware(ctx *gin.Context) {
	user, err := authenticate(ctx)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated."})
		return
	}
	setUser(ctx, user)
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func authenticate(ctx *gin.Context) (*models.User, error) {
	token := bearerToken(ctx)
	if token == "" {
		return nil, errMissingToken
	}
	uid, _, err := parseToken(token)
	if err != nil {
		logger.L.Debug("token rejected", zap.Error(err))
		return nil, err
	}
	var user models.User
	if err := db.GetDb().
		Select("id", "name", "email").
		Scopes(scopes.WithID(uid)).
		First(&user).
		Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func setUser(ctx *gin.Context, user *models.User) {
	ctx.Set("id", user.ID)
	ctx.Set("email", user.Email)
	ctx.Set("name", user.Name)
}

// ActorID returns the signed in user's id, or nil for guests.
func ActorID(ctx *gin.Context) *uint {
	v, ok := ctx.Get("id")
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}
