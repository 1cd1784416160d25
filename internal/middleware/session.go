package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
)

// ContextStudentKey is the gin context key storing student session claims.
const ContextStudentKey = "currentStudent"

type studentTokenParser interface {
	ParseToken(token string) (*models.StudentClaims, error)
}

// ExtractSessionToken reads the student session credential with a fixed
// precedence: the session cookie first, then an Authorization bearer header.
func ExtractSessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(models.StudentSessionCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// StudentSession protects portal routes by requiring a valid session token.
// Rejections use the portal's flat contract, not the response envelope.
func StudentSession(parser studentTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractSessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(appErrors.ErrUnauthorized.Status, models.StudentVerifyResponse{
				Error: "no session token provided",
			})
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			appErr := appErrors.FromError(err)
			c.AbortWithStatusJSON(appErr.Status, models.StudentVerifyResponse{
				Error:          appErr.Message,
				RequiresReauth: appErr.Code == appErrors.ErrTokenExpired.Code,
			})
			return
		}

		c.Set(ContextStudentKey, claims)
		c.Next()
	}
}
