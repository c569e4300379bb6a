package routes

import (
	"net/http"
	"time"

	"fundis/handlers"
	"fundis/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes sets up the WhatsApp webhook endpoints. Both
// are public; Meta authenticates via the verify token handshake.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	webhook := r.Group("/api/webhook")
	{
		webhook.GET("/whatsapp", hb.Webhook.Verify)
		webhook.POST("/whatsapp", hb.Webhook.Receive)
	}
}

// RegisterPaymentRoutes sets up payment endpoints. The Daraja callback
// is public; initiation and status require authentication.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	payments := r.Group("/api/payments")
	{
		payments.POST("/callback", hb.Payments.Callback)

		protected := payments.Group("")
		protected.Use(auth)
		protected.POST("/initiate", hb.Payments.Initiate)
		protected.GET("/status/:id", hb.Payments.Status)
	}
}

// RegisterBookingRoutes sets up the dashboard booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	bookings := r.Group("/api/bookings")
	{
		bookings.Use(auth)
		bookings.GET("", hb.Bookings.List)
		bookings.GET("/:id", hb.Bookings.Get)
		bookings.PUT("/:id/status", hb.Bookings.UpdateStatus)
	}
}

// RegisterAuthRoutes sets up dashboard account endpoints. Password
// provisioning sits behind the admin token.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", hb.Auth.Login)
		auth.PUT("/users/:id/password", middleware.AdminAuthMiddleware(), hb.Auth.SetPassword)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	{
		admin.Use(middleware.AdminAuthMiddleware())
		admin.GET("/dashboard", hb.Admin.Dashboard)
		admin.GET("/users", hb.Admin.ListUsers)
		admin.PUT("/users/:id/active", hb.Admin.SetUserActive)
		admin.GET("/providers", hb.Admin.ListProviders)
		admin.PUT("/providers/:id/verify", hb.Admin.VerifyProvider)
		admin.GET("/bookings", hb.Admin.ListBookings)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Fundis"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWebhookRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterPaymentRoutes(r, hb, auth)
	RegisterBookingRoutes(r, hb, auth)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
