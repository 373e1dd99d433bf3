package auth

import (
	"net/http"
	"strings"

	"emplystack/internal/shared/apperror"
	"emplystack/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	accessCookieMaxAge  = 15 * 60
	refreshCookieMaxAge = 3600 * 24 * 7
)

type Handler struct {
	service       Service
	secureCookies bool
}

func NewHandler(s Service, secureCookies bool) *Handler {
	return &Handler{service: s, secureCookies: secureCookies}
}

// isWebClient reports whether tokens should also be delivered as cookies.
func isWebClient(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("X-Client-Type"), "WEB")
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	token, refreshToken, userResp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	if isWebClient(c) {
		h.setCookie(c, "access_token", token, accessCookieMaxAge)
		h.setCookie(c, "refresh_token", refreshToken, refreshCookieMaxAge)
	}

	response.Success(c, http.StatusOK, LoginResponse{
		User:         userResp,
		AccessToken:  token,
		RefreshToken: refreshToken,
	}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		writeError(c, apperror.ErrUnauthorized)
		return
	}

	userResp, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, userResp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, "access_token", "", -1)
	h.setCookie(c, "refresh_token", "", -1)

	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, nil)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var refreshToken string
	web := isWebClient(c)

	if web {
		cookie, err := c.Cookie("refresh_token")
		if err != nil {
			writeError(c, apperror.RequiredField("refresh_token"))
			return
		}
		refreshToken = cookie
	} else {
		var req RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, apperror.MapValidationError(err))
			return
		}
		refreshToken = req.RefreshToken
	}

	newAccess, newRefresh, userResp, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	if web {
		h.setCookie(c, "access_token", newAccess, accessCookieMaxAge)
		h.setCookie(c, "refresh_token", newRefresh, refreshCookieMaxAge)
	}

	response.Success(c, http.StatusOK, LoginResponse{
		User:         userResp,
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
	}, nil)
}
