package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"

	"prescripto/config"
	"prescripto/database"
	appointmentRepoPkg "prescripto/database/repository/appointment"
	doctorRepoPkg "prescripto/database/repository/doctor"
	userRepoPkg "prescripto/database/repository/user"
	"prescripto/handlers"
	"prescripto/middleware"
	"prescripto/routes"
	adminSvc "prescripto/services/admin"
	"prescripto/services/booking"
	doctorSvc "prescripto/services/doctor"
	"prescripto/services/reminder"
	userSvc "prescripto/services/user"
	"prescripto/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	doctorRepo := doctorRepoPkg.NewMongoDoctorRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	apptRepo := appointmentRepoPkg.NewMongoAppointmentRepo()

	// services.
	userService := &userSvc.DefaultUserService{
		Repo:    userRepo,
		Storage: cloudinaryStorageService,
	}
	doctorService := &doctorSvc.DefaultDoctorService{
		Repo:     doctorRepo,
		ApptRepo: apptRepo,
	}
	adminService := &adminSvc.DefaultAdminService{
		DoctorRepo: doctorRepo,
		UserRepo:   userRepo,
		ApptRepo:   apptRepo,
		Storage:    cloudinaryStorageService,
	}
	bookingService := &booking.DefaultBookingService{
		DoctorRepo: doctorRepo,
		UserRepo:   userRepo,
		ApptRepo:   apptRepo,
		Reminder:   reminder.NewAsynqScheduler(),
	}
	paymentService := &booking.StripePaymentService{
		ApptRepo: apptRepo,
		Currency: config.AppConfig.Currency,
	}

	// handlers.
	userHandler := handlers.NewUserHandler(userService, bookingService, paymentService)
	doctorHandler := handlers.NewDoctorHandler(doctorService, bookingService)
	adminHandler := handlers.NewAdminHandler(adminService, doctorService, bookingService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		RegisterUserHandler:     userHandler.RegisterUserHandler,
		AuthenticateUserHandler: userHandler.AuthenticateUserHandler,
		GetProfileHandler:       userHandler.GetProfileHandler,
		UpdateProfileHandler:    userHandler.UpdateProfileHandler,
		DoctorSlotsHandler:      userHandler.DoctorSlotsHandler,
		BookAppointmentHandler:  userHandler.BookAppointmentHandler,
		UserAppointmentsHandler: userHandler.ListAppointmentsHandler,
		UserCancelHandler:       userHandler.CancelAppointmentHandler,
		CreatePaymentHandler:    userHandler.CreatePaymentHandler,
		VerifyPaymentHandler:    userHandler.VerifyPaymentHandler,

		AuthenticateDoctorHandler:  doctorHandler.AuthenticateDoctorHandler,
		ListDoctorsHandler:         doctorHandler.ListDoctorsHandler,
		DoctorAppointmentsHandler:  doctorHandler.AppointmentsHandler,
		CompleteAppointmentHandler: doctorHandler.CompleteAppointmentHandler,
		DoctorCancelHandler:        doctorHandler.CancelAppointmentHandler,
		DoctorChangeAvailability:   doctorHandler.ChangeAvailabilityHandler,
		DoctorProfileHandler:       doctorHandler.ProfileHandler,
		DoctorUpdateProfileHandler: doctorHandler.UpdateProfileHandler,
		DoctorDashboardHandler:     doctorHandler.DashboardHandler,

		AuthenticateAdminHandler: adminHandler.AuthenticateAdminHandler,
		AddDoctorHandler:         adminHandler.AddDoctorHandler,
		AllDoctorsHandler:        adminHandler.AllDoctorsHandler,
		AdminAppointmentsHandler: adminHandler.AppointmentsHandler,
		AdminCancelHandler:       adminHandler.CancelAppointmentHandler,
		AdminChangeAvailability:  adminHandler.ChangeAvailabilityHandler,
		AdminDashboardHandler:    adminHandler.DashboardHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background workers and monitors.
	reminder.InitReminderWorker(apptRepo)
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "4000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
