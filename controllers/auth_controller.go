package controllers

import (
	"net/http"
	"strings"
	"time"

	"lending_register/app"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

func (ac *AuthController) secureCookie() bool {
	return strings.HasPrefix(ac.App.Config.WebOrigin, "https://")
}

func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}

	sid := uuid.NewString()
	if err := ac.AppSessions().Create(c.Request.Context(), sid, u.ID, u.Email); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = ac.Repo.TouchUserLogin(c.Request.Context(), u.ID)

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(ac.App.Config.SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   ac.secureCookie(),
	})
	c.JSON(http.StatusOK, app.H{
		"ok":    true,
		"email": u.Email,
		"role":  ac.App.Config.RoleFor(u.Email),
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSessions().Delete(c.Request.Context(), ck.Value)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   ac.secureCookie(),
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// LogoutAll revokes every session the current user holds, on this device
// and any other.
func (ac *AuthController) LogoutAll(c *gin.Context) {
	v, _ := c.Get("userID")
	uid, _ := v.(string)
	if uid != "" {
		_ = ac.AppSessions().RevokeAllForUser(c.Request.Context(), uid)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   ac.secureCookie(),
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) WhoAmI(c *gin.Context) {
	email, _ := c.Get("email")
	role, _ := c.Get("role")
	c.JSON(http.StatusOK, app.H{"email": email, "role": role})
}
