package middleware

import (
	"github.com/gin-gonic/gin"

	"prescripto/utils"
)

// UserIDKey is the context key carrying the authenticated patient id.
const UserIDKey = "userID"

// JWTAuthUserMiddleware authenticates patient requests.
func JWTAuthUserMiddleware() gin.HandlerFunc {
	return requireRole(utils.RolePatient, UserIDKey)
}
