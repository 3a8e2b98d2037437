package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	// Patient endpoints.
	RegisterUserHandler     gin.HandlerFunc
	AuthenticateUserHandler gin.HandlerFunc
	GetProfileHandler       gin.HandlerFunc
	UpdateProfileHandler    gin.HandlerFunc
	DoctorSlotsHandler      gin.HandlerFunc
	BookAppointmentHandler  gin.HandlerFunc
	UserAppointmentsHandler gin.HandlerFunc
	UserCancelHandler       gin.HandlerFunc
	CreatePaymentHandler    gin.HandlerFunc
	VerifyPaymentHandler    gin.HandlerFunc

	// Doctor console endpoints.
	AuthenticateDoctorHandler  gin.HandlerFunc
	ListDoctorsHandler         gin.HandlerFunc
	DoctorAppointmentsHandler  gin.HandlerFunc
	CompleteAppointmentHandler gin.HandlerFunc
	DoctorCancelHandler        gin.HandlerFunc
	DoctorChangeAvailability   gin.HandlerFunc
	DoctorProfileHandler       gin.HandlerFunc
	DoctorUpdateProfileHandler gin.HandlerFunc
	DoctorDashboardHandler     gin.HandlerFunc

	// Admin console endpoints.
	AuthenticateAdminHandler gin.HandlerFunc
	AddDoctorHandler         gin.HandlerFunc
	AllDoctorsHandler        gin.HandlerFunc
	AdminAppointmentsHandler gin.HandlerFunc
	AdminCancelHandler       gin.HandlerFunc
	AdminChangeAvailability  gin.HandlerFunc
	AdminDashboardHandler    gin.HandlerFunc
}
