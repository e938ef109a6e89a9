package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	HeaderEmployee       = "X-Employee-Id"
	contextEmployeeIDKey = "employee_id"
	anonymousEmployee    = "anonymous"
)

// EmployeeContext resolves the acting employee from the identity header.
// The floor tablets send X-Employee-Id after badge scan; requests without
// it are attributed to "anonymous" rather than rejected.
func EmployeeContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		employee := strings.TrimSpace(c.GetHeader(HeaderEmployee))
		if employee == "" {
			employee = anonymousEmployee
		}
		c.Set(contextEmployeeIDKey, employee)
		c.Next()
	}
}

func (s *Server) employeeID(c *gin.Context) string {
	return c.GetString(contextEmployeeIDKey)
}
