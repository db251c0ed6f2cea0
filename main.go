package main

import (
	"canteen-pos/app"
	"canteen-pos/config"
	_ "canteen-pos/docs"
	"log"

	"github.com/gin-gonic/gin"
)

// @title Canteen POS Terminal API
// @version 1.0
// @description Point-of-sale terminal for a school canteen: staff sessions, catalog, cart and cash or student card checkout.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	config.LoadConfig()

	if config.AppConfig.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()
	terminal := app.New(config.AppConfig, router)
	defer terminal.Close()

	port := ":" + config.AppConfig.Port
	log.Printf("Server starting on port %s", port)
	log.Printf("Environment: %s", config.AppConfig.AppEnv)
	log.Printf("Swagger UI: http://localhost:%s/swagger/index.html", config.AppConfig.Port)

	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
