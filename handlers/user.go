package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prescripto/middleware"
	"prescripto/models"
	"prescripto/services/booking"
	"prescripto/services/user"
	"prescripto/utils"
)

// UserHandler serves the patient-facing endpoints.
type UserHandler struct {
	Users    user.UserService
	Booking  booking.BookingService
	Payments booking.PaymentService
}

// NewUserHandler creates a UserHandler instance.
func NewUserHandler(users user.UserService, bookingSvc booking.BookingService, payments booking.PaymentService) *UserHandler {
	return &UserHandler{Users: users, Booking: bookingSvc, Payments: payments}
}

func authenticatedUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

// RegisterUserHandler creates a patient account and returns a signed token.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.Users.Register(user.RegistrationData{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "token": resp.Token, "userId": resp.ID})
}

// AuthenticateUserHandler verifies patient credentials and returns a token.
func (h *UserHandler) AuthenticateUserHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.Users.Authenticate(req.Email, req.Password)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": resp.Token, "userId": resp.ID})
}

// GetProfileHandler returns the authenticated patient's profile.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	profile, err := h.Users.GetProfile(userID)
	if err != nil {
		getLogger(c).Error("failed to get user profile", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "userData": profile})
}

// UpdateProfileHandler applies the multipart profile form; the image part is
// optional and the address part arrives as a JSON string.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req models.UserUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if raw := c.PostForm("address"); raw != "" {
		var addr models.Address
		if err := json.Unmarshal([]byte(raw), &addr); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid address")
			return
		}
		req.Address = &addr
	}

	imagePath, hasImage, err := saveTempUpload(c, "image")
	if err != nil {
		getLogger(c).Error("failed to store uploaded image", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process image")
		return
	}
	if hasImage {
		defer os.Remove(imagePath)
	}

	updated, err := h.Users.UpdateProfile(userID, req, imagePath)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile Updated", "userData": updated})
}

// DoctorSlotsHandler returns the seven-day availability for a doctor.
func (h *UserHandler) DoctorSlotsHandler(c *gin.Context) {
	docID := c.Param("docId")

	slots, err := h.Booking.AvailableSlotsForDoctor(docID)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "slots": slots})
}

// BookAppointmentHandler reserves a slot and creates the appointment record.
func (h *UserHandler) BookAppointmentHandler(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req struct {
		DocID    string `json:"docId"`
		SlotDate string `json:"slotDate"`
		SlotTime string `json:"slotTime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	appt, err := h.Booking.Book(c.Request.Context(), userID, req.DocID, req.SlotDate, req.SlotTime)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Appointment Booked", "appointment": appt})
}

// ListAppointmentsHandler returns the patient's appointments, newest first.
func (h *UserHandler) ListAppointmentsHandler(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	appts, err := h.Booking.AppointmentsForUser(userID)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appts})
}

// CancelAppointmentHandler cancels one of the patient's own appointments.
// Cancelling an already-cancelled appointment succeeds without change.
func (h *UserHandler) CancelAppointmentHandler(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	changed, err := h.Booking.Cancel(c.Request.Context(), booking.Principal{ID: userID, Role: utils.RolePatient}, req.AppointmentID)
	if err != nil {
		bookingError(c, err)
		return
	}

	msg := "Appointment Cancelled"
	if !changed {
		msg = "Appointment already cancelled"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// CreatePaymentHandler opens a payment order for an appointment's fee.
func (h *UserHandler) CreatePaymentHandler(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	order, err := h.Payments.CreatePayment(c.Request.Context(), userID, req.AppointmentID)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// VerifyPaymentHandler confirms settlement with the gateway and marks the
// appointment paid.
func (h *UserHandler) VerifyPaymentHandler(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.Payments.VerifyPayment(c.Request.Context(), userID, req.AppointmentID); err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment Successful"})
}
