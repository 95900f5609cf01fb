package handler

import (
	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc   *service.AuthService
	users *service.UserService
}

func NewAuthHandler(svc *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc, users: users}
}

type loginReq struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	CaptchaID string `json:"captchaId"`
	Code      string `json:"code"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type resetCodeReq struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordReq struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h *AuthHandler) Captcha(c *gin.Context) {
	cp, err := h.svc.NewCaptcha(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, cp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	res, err := h.svc.Login(c.Request.Context(), service.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		CaptchaID: req.CaptchaID,
		Code:      req.Code,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, res)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	if err := h.svc.Logout(c.Request.Context(), uid); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	p, err := h.users.Get(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, p)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var req resetCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	if err := h.svc.SendResetCode(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badParams(c, err)
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
