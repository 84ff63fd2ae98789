package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servomart/servomart/assets"
)

// SetupAssets serves the embedded static files under /assets.
func SetupAssets(r *gin.Engine) error {
	r.StaticFS("/assets", http.FS(assets.Assets))
	return nil
}
