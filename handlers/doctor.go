package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prescripto/middleware"
	"prescripto/models"
	"prescripto/services/booking"
	"prescripto/services/doctor"
	"prescripto/utils"
)

// DoctorHandler serves the doctor console endpoints.
type DoctorHandler struct {
	Doctors doctor.DoctorService
	Booking booking.BookingService
}

// NewDoctorHandler creates a DoctorHandler instance.
func NewDoctorHandler(doctors doctor.DoctorService, bookingSvc booking.BookingService) *DoctorHandler {
	return &DoctorHandler{Doctors: doctors, Booking: bookingSvc}
}

func authenticatedDoctorID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.DoctorIDKey)
	if !exists {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	docID, ok := v.(string)
	if !ok || docID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return docID, true
}

// AuthenticateDoctorHandler verifies doctor credentials and returns a token.
func (h *DoctorHandler) AuthenticateDoctorHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.Doctors.Authenticate(req.Email, req.Password)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": resp.Token, "docId": resp.ID})
}

// ListDoctorsHandler returns the public doctor directory.
func (h *DoctorHandler) ListDoctorsHandler(c *gin.Context) {
	doctors, err := h.Doctors.List()
	if err != nil {
		getLogger(c).Error("failed to list doctors", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve doctors")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "doctors": doctors})
}

// AppointmentsHandler returns the doctor's assigned appointments.
func (h *DoctorHandler) AppointmentsHandler(c *gin.Context) {
	docID, ok := authenticatedDoctorID(c)
	if !ok {
		return
	}

	appts, err := h.Booking.AppointmentsForDoctor(docID)
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appts})
}

// CompleteAppointmentHandler marks an assigned appointment as completed.
func (h *DoctorHandler) CompleteAppointmentHandler(c *gin.Context) {
	docID, ok := authenticatedDoctorID(c)
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

	if err := h.Booking.Complete(c.Request.Context(), booking.Principal{ID: docID, Role: utils.RoleDoctor}, req.AppointmentID); err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Appointment Completed"})
}

// CancelAppointmentHandler cancels an assigned appointment and frees its slot.
func (h *DoctorHandler) CancelAppointmentHandler(c *gin.Context) {
	docID, ok := authenticatedDoctorID(c)
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

	changed, err := h.Booking.Cancel(c.Request.Context(), booking.Principal{ID: docID, Role: utils.RoleDoctor}, req.AppointmentID)
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

// ChangeAvailabilityHandler toggles the doctor's own available flag.
func (h *DoctorHandler) ChangeAvailabilityHandler(c *gin.Context) {
	docID, ok := authenticatedDoctorID(c)
	if !ok {
		return
	}

	available, err := h.Doctors.ChangeAvailability(docID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Availability Changed", "available": available})
}

// ProfileHandler returns the doctor's own profile.
func (h *DoctorHandler) ProfileHandler(c *gin.Context) {
	docID, ok := authenticatedDoctorID(c)
	if !ok {
		return
	}

	profile, err := h.Doctors.GetProfile(docID)
	if err != nil {
		getLogger(c).Error("failed to get doctor profile", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}
	if profile == nil {
		utils.JSONError(c, http.StatusNotFound, "doctor not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profileData": profile})
}

// UpdateProfileHandler applies the doctor-editable profile fields.
func (h *DoctorHandler) UpdateProfileHandler(c *gin.Context) {
	docID, ok := authenticatedDoctorID(c)
	if !ok {
		return
	}

	var req models.DoctorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	updated, err := h.Doctors.UpdateProfile(docID, req)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile Updated", "profileData": updated})
}

// DashboardHandler returns the doctor console summary.
func (h *DoctorHandler) DashboardHandler(c *gin.Context) {
	docID, ok := authenticatedDoctorID(c)
	if !ok {
		return
	}

	data, err := h.Doctors.Dashboard(docID)
	if err != nil {
		getLogger(c).Error("failed to build doctor dashboard", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "dashData": data})
}
