package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/config"
	"github.com/firegrill/ordering-backend/middlewares"
	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/router"
	"github.com/firegrill/ordering-backend/services"
	"github.com/firegrill/ordering-backend/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	redisClient := config.InitRedis()
	cartStore := services.NewCartStore(redisClient)

	gateway := services.GetStripeService()
	if err := gateway.ValidateConfig(); err != nil {
		utils.ErrorLogger.Fatalf("Stripe configuration invalid: %v", err)
	}

	// Order events are optional; without brokers the checkout flow simply
	// skips publishing.
	var publisher services.OrderPublisher
	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		kafkaPublisher := services.NewKafkaOrderPublisher(brokers, config.KafkaOrderTopic())
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, cartStore, gateway, publisher)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.MenuItemChoice{},
		&models.Order{},
		&models.PointsEntry{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
