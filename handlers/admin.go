package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prescripto/models"
	"prescripto/services/admin"
	"prescripto/services/booking"
	"prescripto/services/doctor"
	"prescripto/utils"
)

// AdminHandler serves the admin console endpoints.
type AdminHandler struct {
	Admin   admin.AdminService
	Doctors doctor.DoctorService
	Booking booking.BookingService
}

// NewAdminHandler creates an AdminHandler instance.
func NewAdminHandler(adminSvc admin.AdminService, doctors doctor.DoctorService, bookingSvc booking.BookingService) *AdminHandler {
	return &AdminHandler{Admin: adminSvc, Doctors: doctors, Booking: bookingSvc}
}

// AuthenticateAdminHandler checks the configured admin credentials.
func (h *AdminHandler) AuthenticateAdminHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	token, err := h.Admin.Authenticate(req.Email, req.Password)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// AddDoctorHandler creates a doctor profile from the multipart form. The
// portrait image is required and the address part arrives as a JSON string.
func (h *AdminHandler) AddDoctorHandler(c *gin.Context) {
	fees, _ := strconv.ParseFloat(c.PostForm("fees"), 64)
	req := admin.AddDoctorRequest{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Password:   c.PostForm("password"),
		Speciality: c.PostForm("speciality"),
		Degree:     c.PostForm("degree"),
		Experience: c.PostForm("experience"),
		About:      c.PostForm("about"),
		Fees:       fees,
	}
	if raw := c.PostForm("address"); raw != "" {
		var addr models.Address
		if err := json.Unmarshal([]byte(raw), &addr); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid address")
			return
		}
		req.Address = addr
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

	doc, err := h.Admin.AddDoctor(req, imagePath)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Doctor Added", "doctor": doc})
}

// AllDoctorsHandler returns every doctor profile minus credentials.
func (h *AdminHandler) AllDoctorsHandler(c *gin.Context) {
	doctors, err := h.Admin.AllDoctors()
	if err != nil {
		getLogger(c).Error("failed to list doctors", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve doctors")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "doctors": doctors})
}

// AppointmentsHandler returns every appointment, newest first.
func (h *AdminHandler) AppointmentsHandler(c *gin.Context) {
	appts, err := h.Booking.AllAppointments()
	if err != nil {
		bookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointments": appts})
}

// CancelAppointmentHandler cancels any appointment and frees its slot.
func (h *AdminHandler) CancelAppointmentHandler(c *gin.Context) {
	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	changed, err := h.Booking.Cancel(c.Request.Context(), booking.Principal{ID: utils.AdminSubject, Role: utils.RoleAdmin}, req.AppointmentID)
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

// ChangeAvailabilityHandler toggles a doctor's available flag.
func (h *AdminHandler) ChangeAvailabilityHandler(c *gin.Context) {
	var req struct {
		DocID string `json:"docId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	available, err := h.Doctors.ChangeAvailability(req.DocID)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Availability Changed", "available": available})
}

// DashboardHandler returns the admin console summary.
func (h *AdminHandler) DashboardHandler(c *gin.Context) {
	data, err := h.Admin.Dashboard()
	if err != nil {
		getLogger(c).Error("failed to build admin dashboard", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "dashData": data})
}
