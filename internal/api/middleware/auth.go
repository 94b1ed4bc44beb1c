package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tilevision/segserve/internal/app"
)

// TokenAuthMiddleware guards the JSON API with a static bearer token.
// An empty configured token leaves the API open, the demo default.
func TokenAuthMiddleware(ctx *gin.Context) {
	app := ctx.MustGet("app").(*app.App)

	token := app.Config().AuthToken
	if token == "" {
		ctx.Next()
		return
	}

	if ctx.GetHeader("Authorization") != "Bearer "+token {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
		ctx.Abort()
		return
	}

	ctx.Next()
}
