package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/dto"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/metrics"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
	"github.com/BruksfildServices01/restaurant-app/internal/session"
	ucAuth "github.com/BruksfildServices01/restaurant-app/internal/usecase/auth"
)

type AuthHandler struct {
	registerUC   *ucAuth.Register
	loginUC      *ucAuth.Login
	requestOTPUC *ucAuth.RequestOTP
	verifyOTPUC  *ucAuth.VerifyOTP

	sessions *session.Manager
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewAuthHandler(
	registerUC *ucAuth.Register,
	loginUC *ucAuth.Login,
	requestOTPUC *ucAuth.RequestOTP,
	verifyOTPUC *ucAuth.VerifyOTP,
	sessions *session.Manager,
	m *metrics.Metrics,
	log *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		registerUC:   registerUC,
		loginUC:      loginUC,
		requestOTPUC: requestOTPUC,
		verifyOTPUC:  verifyOTPUC,
		sessions:     sessions,
		metrics:      m,
		log:          log,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type SendOTPRequest struct {
	Email string `form:"email" json:"email"`
}

type VerifyOTPRequest struct {
	Email string `form:"email" json:"email"`
	OTP   string `form:"otp" json:"otp"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	user, err := h.registerUC.Execute(c.Request.Context(), ucAuth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		jsonFailure(c, h.log, err)
		return
	}

	h.log.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))

	if !wantsJSON(c) {
		redirect(c, "/otp_login")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"user":     dto.NewUserDTO(user),
		"redirect": "/otp_login",
	})
}

// LoginPage remembers ?next= for after authentication.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	next := safeNext(c.Query("next"))
	if next != "" {
		if err := h.sessions.SetNext(c, next); err != nil {
			writeError(c, h.log, err)
			return
		}
	}

	ident, authenticated := session.IdentityFrom(c)
	resp := gin.H{
		"authenticated": authenticated,
		"next":          next,
	}
	if authenticated {
		resp["email"] = ident.Email
	}
	if e := c.Query("error"); e != "" {
		resp["error"] = e
		resp["message"] = messageFor(e)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	user, err := h.loginUC.Execute(c.Request.Context(), ucAuth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	h.metrics.Login("password", err == nil)
	if err != nil {
		jsonFailure(c, h.log, err)
		return
	}

	h.signIn(c, user)
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request."})
		return
	}

	res, err := h.requestOTPUC.Execute(c.Request.Context(), req.Email)
	if err != nil {
		if code, ok := httperr.BusinessCode(err); ok {
			h.metrics.OTPRequest(code)
			c.JSON(statusFor(code), gin.H{
				"success": false,
				"error":   code,
				"message": messageFor(code),
			})
			return
		}
		h.metrics.OTPRequest("error")
		jsonFailure(c, h.log, err)
		return
	}

	if res.Delivered {
		h.metrics.OTPRequest("sent")
	} else {
		h.metrics.OTPRequest("logged")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP sent to " + account.NormalizeEmail(req.Email) + ".",
	})
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	user, err := h.verifyOTPUC.Execute(c.Request.Context(), req.Email, req.OTP)
	h.metrics.Login("otp", err == nil)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_otp") && !wantsJSON(c) {
			redirect(c, "/otp_login?error="+url.QueryEscape("invalid_otp"))
			return
		}
		jsonFailure(c, h.log, err)
		return
	}

	h.signIn(c, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c); err != nil {
		h.log.Warn("logout: session delete failed", slog.Any("err", err))
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/"})
		return
	}
	redirect(c, "/")
}

// signIn opens a fresh session for user and sends them to the stored
// next target or their role's home.
func (h *AuthHandler) signIn(c *gin.Context, user *models.User) {
	next, err := h.sessions.Establish(c, session.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	target := safeNext(next)
	if target == "" {
		target = account.Role(user.Role).Home()
	}

	if !wantsJSON(c) {
		redirect(c, target)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": target,
		"user":     dto.NewUserDTO(user),
	})
}
