package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"prescripto/handlers"
	"prescripto/middleware"
	"prescripto/utils"
)

// RegisterUserRoutes registers the patient endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/user")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)
		api.GET("/doctors/:docId/slots", hb.DoctorSlotsHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("/get-profile", hb.GetProfileHandler)
		api.POST("/update-profile", hb.UpdateProfileHandler)
		api.POST("/book-appointment", hb.BookAppointmentHandler)
		api.POST("/appointments", hb.UserAppointmentsHandler)
		api.POST("/cancel-appointment", hb.UserCancelHandler)
		api.POST("/create-payment", hb.CreatePaymentHandler)
		api.POST("/verify-payment", hb.VerifyPaymentHandler)
	}
}

// RegisterDoctorRoutes registers the doctor console endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/doctor")
	{
		api.GET("/list", hb.ListDoctorsHandler)
		api.POST("/login", hb.AuthenticateDoctorHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthDoctorMiddleware())
		api.GET("/appointments", hb.DoctorAppointmentsHandler)
		api.POST("/complete-appointment", hb.CompleteAppointmentHandler)
		api.POST("/cancel-appointment", hb.DoctorCancelHandler)
		api.POST("/change-availability", hb.DoctorChangeAvailability)
		api.GET("/profile", hb.DoctorProfileHandler)
		api.POST("/update-profile", hb.DoctorUpdateProfileHandler)
		api.GET("/dashboard", hb.DoctorDashboardHandler)
	}
}

// RegisterAdminRoutes registers the admin console endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.POST("/login", hb.AuthenticateAdminHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthAdminMiddleware())
		api.POST("/add-doctor", hb.AddDoctorHandler)
		api.POST("/all-doctors", hb.AllDoctorsHandler)
		api.GET("/appointments", hb.AdminAppointmentsHandler)
		api.POST("/cancel-appointment", hb.AdminCancelHandler)
		api.POST("/change-availability", hb.AdminChangeAvailability)
		api.GET("/dashboard", hb.AdminDashboardHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
