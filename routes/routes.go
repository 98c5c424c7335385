package routes

import (
	"os"
	"strings"

	"salonx-backend/config"
	"salonx-backend/controllers"
	"salonx-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func allowedOrigins() []string {
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		return strings.Split(v, ",")
	}
	return []string{"http://localhost:3000"}
}

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Admin-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			for _, o := range origins {
				if origin == o {
					return true
				}
			}
			return false
		},
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Payment gateway callbacks are authenticated by signature, not session
	r.POST("/webhooks/payment", controllers.PaymentWebhook)

	// Public lead capture from the marketing site
	r.POST("/leads", controllers.CreateLead)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Staff routes
		staff := api.Group("/staff")
		{
			staff.GET("", controllers.GetStaff)
			staff.POST("", controllers.AddStaff)
			staff.PUT("/:id", controllers.UpdateStaff)
			staff.DELETE("/:id", controllers.DeleteStaff)
		}

		// Attendance routes
		attendance := api.Group("/attendance")
		{
			attendance.GET("", controllers.GetAttendance)
			attendance.POST("", controllers.RecordAttendance)
			attendance.PUT("/:id", controllers.UpdateAttendance)
			attendance.PATCH("/:id", controllers.UpdateAttendance)
		}

		// Service routes
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		// Product routes
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		// Supplier routes
		suppliers := api.Group("/suppliers")
		{
			suppliers.POST("", controllers.CreateSupplier)
			suppliers.GET("", controllers.GetSuppliers)
			suppliers.GET("/:id", controllers.GetSupplier)
			suppliers.PUT("/:id", controllers.UpdateSupplier)
			suppliers.DELETE("/:id", controllers.DeleteSupplier)
		}

		// Inventory routes
		inventory := api.Group("/inventory")
		{
			inventory.GET("/stock", controllers.GetStock)
			inventory.GET("/low-stock", controllers.GetLowStock)
			inventory.GET("/entries/:id", controllers.GetStockEntries)
			inventory.POST("/adjust", controllers.AdjustStock)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("", controllers.GetAppointments)
			appointments.GET("/:id", controllers.GetAppointment)
			appointments.PUT("/:id", controllers.UpdateAppointment)
			appointments.PUT("/:id/status", controllers.UpdateAppointmentStatus)
			appointments.PATCH("/:id/status", controllers.UpdateAppointmentStatus)
			appointments.DELETE("/:id", controllers.DeleteAppointment)
		}

		// Billing routes
		bills := api.Group("/billing/bills")
		{
			bills.POST("", controllers.CreateBill)
			bills.GET("", controllers.GetBills)
			bills.GET("/:id", controllers.GetBill)
			bills.PUT("/:id/payment", controllers.UpdateBillPayment)
			bills.DELETE("/:id", controllers.DeleteBill)
			bills.GET("/:id/pdf", controllers.DownloadBillPDF)
		}

		// Coupon routes
		coupons := api.Group("/coupons")
		{
			coupons.POST("", controllers.CreateCoupon)
			coupons.GET("", controllers.GetCoupons)
			coupons.PUT("/:id", controllers.UpdateCoupon)
			coupons.DELETE("/:id", controllers.DeleteCoupon)
			coupons.POST("/validate", controllers.ValidateCoupon)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("/order", controllers.CreatePaymentOrder)
			payments.POST("/verify", controllers.VerifyPayment)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetReportAnalytics)
		api.GET("/reports/export", reportController.ExportBills)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetSalon)
			profile.PUT("/update-salon", controllers.UpdateSalonProfile)
			profile.PUT("/update-hours", controllers.UpdateWorkingHours)
			profile.PUT("/update-templates", controllers.UpdateReminderTemplates)
			profile.PUT("/update-notifications", controllers.UpdateNotifications)
		}
	}

	// Platform administration, gated by the admin key
	admin := r.Group("/api/admin")
	admin.Use(utils.AdminMiddleware())
	{
		admin.GET("/salons", controllers.ListSalons)
		admin.GET("/salons/:id", controllers.GetSalonDetail)
		admin.PUT("/salons/:id/active", controllers.SetSalonActive)

		admin.GET("/leads", controllers.GetLeads)
		admin.POST("/leads", controllers.CreateLead)
		admin.PUT("/leads/:id", controllers.UpdateLead)
		admin.POST("/leads/:id/convert", controllers.ConvertLead)

		admin.POST("/keys", controllers.GenerateActivationKey)
		admin.GET("/keys", controllers.ListActivationKeys)
		admin.DELETE("/keys/:id", controllers.RevokeActivationKey)

		admin.GET("/subscriptions", controllers.ListSubscriptions)
		admin.PUT("/subscriptions/:id", controllers.UpdateSubscription)
	}

	return r
}
