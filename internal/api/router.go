package api

import (
	"github.com/gin-gonic/gin"

	"ttestcalc/app"
	"ttestcalc/internal"
)

// NewRouter builds the gin engine serving /api
func NewRouter(service *app.TTestService, logger *internal.Logger, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}

	NewTTestHandler(service, logger).RegisterRoutes(r)
	return r
}
