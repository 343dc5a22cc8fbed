package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/logger"
	"github.com/BruksfildServices01/restaurant-app/internal/middleware"
)

func wantsJSON(c *gin.Context) bool {
	return middleware.WantsJSON(c)
}

// safeNext only keeps same-site relative paths.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") {
		return ""
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	if strings.ContainsAny(next, "\r\n") {
		return ""
	}
	return next
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// Business code -> HTTP status
// ======================================================

var businessStatus = map[string]int{
	"invalid_credentials":      http.StatusUnauthorized,
	"invalid_otp":              http.StatusUnauthorized,
	"login_required":           http.StatusUnauthorized,
	"email_already_registered": http.StatusConflict,
	"otp_delivery_failed":      http.StatusBadGateway,
	"user_not_found":           http.StatusNotFound,
	"order_not_found":          http.StatusNotFound,
	"booking_not_found":        http.StatusNotFound,
	"event_not_found":          http.StatusNotFound,
}

var businessMessage = map[string]string{
	"missing_fields":           "Email and password are required.",
	"invalid_email":            "Please provide a valid email address.",
	"invalid_email_domain":     "The email domain does not look valid.",
	"email_already_registered": "Email already registered.",
	"invalid_credentials":      "Invalid email or password.",
	"email_not_registered":     "Email not registered. Please register first.",
	"otp_delivery_failed":      "We could not send your code. Please try again.",
	"invalid_otp":              "Invalid OTP. Please try again.",
	"login_required":           "Please login first.",
	"invalid_state":            "Order is not pending.",
	"cannot_demote_self":       "You cannot remove your own admin role.",
	"cannot_delete_self":       "You cannot delete your own account.",
	"invalid_role":             "Unknown role.",
	"user_not_found":           "User not found.",
	"order_not_found":          "Order not found.",
	"booking_not_found":        "Booking not found.",
	"event_not_found":          "Event not found.",
	"invalid_name":             "Name cannot be empty.",
	"invalid_password":         "Password cannot be empty.",
	"invalid_items":            "Item prices and quantities cannot be negative.",
	"invalid_total":            "Order total cannot be negative.",
	"invalid_guests":           "Guest count cannot be negative.",
}

func statusFor(code string) int {
	if s, ok := businessStatus[code]; ok {
		return s
	}
	return http.StatusBadRequest
}

func messageFor(code string) string {
	if m, ok := businessMessage[code]; ok {
		return m
	}
	return strings.ReplaceAll(code, "_", " ")
}

// writeError answers with the {error_code, message} shape. Unknown errors
// are logged and hidden behind a generic 500.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		httperr.Write(c, statusFor(code), code, messageFor(code))
		return
	}
	logger.WithContext(c.Request.Context(), log).Error("request failed",
		slog.String("path", c.FullPath()),
		slog.Any("err", err),
	)
	_ = c.Error(err)
	httperr.Internal(c, "internal_error", "Something went wrong.")
}

// jsonFailure is the {success:false,...} shape the auth and booking
// screens consume.
func jsonFailure(c *gin.Context, log *slog.Logger, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		logger.WithContext(c.Request.Context(), log).Error("request failed",
			slog.String("path", c.FullPath()),
			slog.Any("err", err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Something went wrong. Please try again.",
		})
		return
	}
	c.JSON(statusFor(code), gin.H{
		"success": false,
		"error":   code,
		"message": messageFor(code),
	})
}
