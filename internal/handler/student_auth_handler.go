package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emmanuel10701/katwanyaa-api/internal/middleware"
	"github.com/Emmanuel10701/katwanyaa-api/internal/models"
	"github.com/Emmanuel10701/katwanyaa-api/internal/service"
	appErrors "github.com/Emmanuel10701/katwanyaa-api/pkg/errors"
)

// StudentAuthHandler wires the student session endpoints. Unlike the rest of
// the API these endpoints speak the portal's flat JSON contract rather than
// the enveloped one, because the public site consumes them directly.
type StudentAuthHandler struct {
	service      *service.StudentAuthService
	cookieSecure bool
	cookieMaxAge int
}

// NewStudentAuthHandler creates a new handler. cookieSecure should be true
// in production so the session cookie is HTTPS-only.
func NewStudentAuthHandler(svc *service.StudentAuthService, cookieSecure bool, cookieMaxAge int) *StudentAuthHandler {
	if cookieMaxAge <= 0 {
		cookieMaxAge = 900
	}
	return &StudentAuthHandler{service: svc, cookieSecure: cookieSecure, cookieMaxAge: cookieMaxAge}
}

// Login godoc
// @Summary Student portal login
// @Description Authenticate a student by full name and admission number
// @Tags Student Portal
// @Accept json
// @Produce json
// @Param payload body models.StudentLoginRequest true "Login payload"
// @Success 200 {object} models.StudentLoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /students/login [post]
func (h *StudentAuthHandler) Login(c *gin.Context) {
	var req models.StudentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.loginError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "fullName and admissionNumber are required"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.loginError(c, err)
		return
	}

	h.setSessionCookie(c, res.Token)
	c.JSON(http.StatusOK, res)
}

// Verify godoc
// @Summary Verify student session
// @Description Check the session token from cookie or bearer header
// @Tags Student Portal
// @Produce json
// @Success 200 {object} models.StudentVerifyResponse
// @Failure 401 {object} models.StudentVerifyResponse
// @Router /students/verify [get]
func (h *StudentAuthHandler) Verify(c *gin.Context) {
	token := middleware.ExtractSessionToken(c)

	res, err := h.service.Verify(c.Request.Context(), token)
	if err != nil {
		appErr := appErrors.FromError(err)
		c.JSON(appErr.Status, models.StudentVerifyResponse{
			Error:          appErr.Message,
			RequiresReauth: appErr.Code == appErrors.ErrTokenExpired.Code,
		})
		return
	}

	c.JSON(http.StatusOK, res)
}

// Logout godoc
// @Summary Student portal logout
// @Description Clear the session cookie and drop the audit session row
// @Tags Student Portal
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /students/logout [delete]
func (h *StudentAuthHandler) Logout(c *gin.Context) {
	token := middleware.ExtractSessionToken(c)
	h.service.Logout(c.Request.Context(), token)

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

// Me godoc
// @Summary Current student identity
// @Description Return the identity embedded in the session token
// @Tags Student Portal
// @Produce json
// @Success 200 {object} models.StudentInfo
// @Failure 401 {object} models.StudentVerifyResponse
// @Router /students/me [get]
func (h *StudentAuthHandler) Me(c *gin.Context) {
	value, ok := c.Get(middleware.ContextStudentKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.StudentVerifyResponse{Error: "no session"})
		return
	}
	claims, ok := value.(*models.StudentClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.StudentVerifyResponse{Error: "no session"})
		return
	}

	c.JSON(http.StatusOK, models.StudentInfo{
		ID:              claims.StudentID,
		AdmissionNumber: claims.AdmissionNumber,
		FullName:        claims.FullName,
		Form:            claims.Form,
		Stream:          claims.Stream,
	})
}

func (h *StudentAuthHandler) loginError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := gin.H{"success": false, "error": appErr.Message}
	if appErr.Code == appErrors.ErrContactStaff.Code {
		body["requiresContact"] = true
	}
	c.JSON(appErr.Status, body)
}

func (h *StudentAuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(models.StudentSessionCookie, token, h.cookieMaxAge, "/", "", h.cookieSecure, true)
}

func (h *StudentAuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(models.StudentSessionCookie, "", -1, "/", "", h.cookieSecure, true)
}
