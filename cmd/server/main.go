package main

import (
	"log"

	"github.com/s20467/Forum-Backend/internal/config"
	"github.com/s20467/Forum-Backend/internal/db"
	"github.com/s20467/Forum-Backend/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := config.Load()

	// Initialize Database
	db.Init()

	// Initialize Gin
	r := gin.Default()
	router.RegisterRoutes(r)

	log.Printf("Forum server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
