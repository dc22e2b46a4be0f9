package handler

import (
	"net/http"
	"time"

	"github.com/LakshyaDuck/finance-tracker/internal/service"
	"github.com/LakshyaDuck/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes login/register and credential management.
type AuthHandler struct {
	Auth      *service.Auth
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(auth *service.Auth, jwtSecret string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Auth:      auth,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

type registerReq struct {
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Confirmation string `json:"confirmation" binding:"required"`
	Currency     string `json:"currency"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	if req.Password != req.Confirmation {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "passwords don't match")
		return
	}

	result, err := h.Auth.Register(req.Username, req.Password, req.Currency)
	if err != nil {
		fail(c, err)
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":       result.User.ID,
			"username": result.User.Username,
			"currency": result.User.Currency,
		},
		"default_account_id": result.DefaultAccount.ID,
	})
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	result, err := h.Auth.Login(req.Username, req.Password, c.ClientIP())
	if err != nil {
		// login is the one place where an ownership failure is a 401
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid username or password")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, result.User.ID, result.Session.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "generate token failed")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":       result.User.ID,
			"username": result.User.Username,
			"currency": result.User.Currency,
		},
		"default_account_id": result.DefaultAccount.ID,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString("sessionID")
	if sessionID == "" {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	if err := h.Auth.Logout(sessionID); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "logged out"})
}

// GetMe returns the authenticated user's profile.
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"currency": user.Currency,
		},
	})
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	if err := h.Auth.ChangePassword(user.ID, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "password changed"})
}

type changeCurrencyReq struct {
	Currency string `json:"currency" binding:"required"`
}

func (h *AuthHandler) ChangeCurrency(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req changeCurrencyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	if err := h.Auth.ChangeCurrency(user.ID, req.Currency); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"currency": req.Currency})
}
