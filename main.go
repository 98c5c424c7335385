package main

import (
	"fmt"
	"log"
	"os"

	"salonx-backend/config"
	"salonx-backend/models"
	"salonx-backend/routes"
	"salonx-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.Supplier{},
		&models.Product{},
		&models.StockEntry{},
		&models.Appointment{},
		&models.Attendance{},
		&models.Bill{},
		&models.BillItem{},
		&models.BillSequence{},
		&models.PaymentOrder{},
		&models.Coupon{},
		&models.Lead{},
		&models.ActivationKey{},
		&models.Subscription{},
		&models.ReminderTemplate{},
		&models.ReminderLog{},
	)
}

func main() {
	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
