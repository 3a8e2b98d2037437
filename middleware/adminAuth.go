package middleware

import (
	"github.com/gin-gonic/gin"

	"prescripto/utils"
)

// AdminKey is the context key set for authenticated admin requests.
const AdminKey = "isAdmin"

// JWTAuthAdminMiddleware authenticates admin console requests against the
// fixed admin subject marker.
func JWTAuthAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "Unauthorized: no token provided")
			return
		}

		subject, role, err := utils.ExtractSubjectFromToken(token)
		if err != nil {
			abortUnauthorized(c, "Unauthorized: invalid token")
			return
		}
		if role != utils.RoleAdmin || subject != utils.AdminSubject {
			abortUnauthorized(c, "Unauthorized admin access")
			return
		}

		c.Set(AdminKey, true)
		c.Next()
	}
}
