package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/session"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// Deny answers a request that lacks the required identity.
type Deny func(c *gin.Context)

// RedirectToLogin sends browsers to the login page, remembering where
// they were headed.
func RedirectToLogin(loginPath string) Deny {
	return func(c *gin.Context) {
		target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
	}
}

func DenyJSON(status int, body gin.H) Deny {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(status, body)
	}
}

// WantsJSON is true for fetch/XHR style clients; plain browser requests
// get redirects instead.
func WantsJSON(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	if strings.HasPrefix(c.ContentType(), "application/json") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// Negotiate picks the JSON answer for API clients and browser otherwise.
func Negotiate(api, browser Deny) Deny {
	return func(c *gin.Context) {
		if WantsJSON(c) {
			api(c)
			return
		}
		browser(c)
	}
}

// RequireLogin lets the request through only with an authenticated session.
// With users set, the account must still exist; sessions of deleted users
// are treated as anonymous.
func RequireLogin(deny Deny, users account.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := session.IdentityFrom(c)
		if !ok {
			deny(c)
			return
		}

		role := ident.Role
		if users != nil {
			u, err := users.FindByID(c.Request.Context(), ident.UserID)
			if err != nil {
				if errors.Is(err, account.ErrNotFound) {
					deny(c)
					return
				}
				httperr.Abort(c, http.StatusInternalServerError, "internal_error", "Could not verify session.")
				return
			}
			role = u.Role
		}

		c.Set(ContextUserID, ident.UserID)
		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// RequireAdmin: anonymous requests get deny, authenticated non-admins a 403.
// With users set, the role is re-read from storage so a demotion applies
// to sessions that were opened before it.
func RequireAdmin(deny Deny, users account.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := session.IdentityFrom(c)
		if !ok {
			deny(c)
			return
		}

		role := account.Role(ident.Role)
		if users != nil {
			u, err := users.FindByID(c.Request.Context(), ident.UserID)
			if err != nil {
				if errors.Is(err, account.ErrNotFound) {
					deny(c)
					return
				}
				httperr.Abort(c, http.StatusInternalServerError, "internal_error", "Could not verify access.")
				return
			}
			role = account.Role(u.Role)
		}

		if role != account.RoleAdmin {
			httperr.Abort(c, http.StatusForbidden, "forbidden", "Admin access required.")
			return
		}

		c.Set(ContextUserID, ident.UserID)
		c.Set(ContextUserRole, string(role))
		c.Next()
	}
}
