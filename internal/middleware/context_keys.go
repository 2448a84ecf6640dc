package middleware

import "github.com/gin-gonic/gin"

// operatorIDKey is the key used to store the authenticated operator's ID in the Gin context.
// Using a custom type prevents collisions.
const operatorIDKey = contextKey("operatorID")

// GetOperatorIDFromContext retrieves the authenticated operator ID from the Gin context.
// It returns the operator ID and a boolean indicating if it was found.
func GetOperatorIDFromContext(c *gin.Context) (string, bool) {
	operatorIDVal, exists := c.Get(string(operatorIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(operatorIDKey)
		if ctxVal != nil {
			if operatorID, ok := ctxVal.(string); ok {
				return operatorID, true
			}
		}
		return "", false
	}

	operatorID, ok := operatorIDVal.(string)
	if !ok {
		return "", false
	}

	return operatorID, true
}
