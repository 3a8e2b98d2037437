package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prescripto/services/booking"
	"prescripto/utils"
)

// statusForError maps a booking outcome code to an HTTP status.
func statusForError(err error) int {
	switch booking.CodeOf(err) {
	case booking.CodeValidation:
		return http.StatusBadRequest
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeUnauthorized:
		return http.StatusForbidden
	case booking.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bookingError writes the standard failure envelope for a booking-flow error.
func bookingError(c *gin.Context, err error) {
	utils.JSONError(c, statusForError(err), booking.MessageOf(err))
}

// saveTempUpload stores the named multipart file under the OS temp dir and
// returns its path. The second return is false when the field is absent.
func saveTempUpload(c *gin.Context, field string) (string, bool, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", false, nil
	}
	tempPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tempPath); err != nil {
		return "", false, err
	}
	return tempPath, true, nil
}
