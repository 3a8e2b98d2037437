package middleware

import (
	"github.com/gin-gonic/gin"

	"prescripto/utils"
)

// DoctorIDKey is the context key carrying the authenticated doctor id.
const DoctorIDKey = "docID"

// JWTAuthDoctorMiddleware authenticates doctor console requests.
func JWTAuthDoctorMiddleware() gin.HandlerFunc {
	return requireRole(utils.RoleDoctor, DoctorIDKey)
}
