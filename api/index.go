package api

import (
	"canteen-pos/app"
	"canteen-pos/config"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	router *gin.Engine
	once   sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		config.LoadConfig()

		router = gin.New()
		router.Use(gin.Recovery())
		app.New(config.AppConfig, router)
	})
}

// Handler serves the terminal API from a single serverless function.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	router.ServeHTTP(w, r)
}
