package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/dto"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/httpresp"
	"github.com/BruksfildServices01/restaurant-app/internal/metrics"
	"github.com/BruksfildServices01/restaurant-app/internal/middleware"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
	"github.com/BruksfildServices01/restaurant-app/internal/session"
	ucAdmin "github.com/BruksfildServices01/restaurant-app/internal/usecase/admin"
	ucAuth "github.com/BruksfildServices01/restaurant-app/internal/usecase/auth"
)

const (
	adminLoginPath = "/admin/login"
	adminHomePath  = "/admin/dashboard"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	loginUC         *ucAuth.Login
	dashboardUC     *ucAdmin.Dashboard
	detailsUC       *ucAdmin.Details
	completeOrderUC *ucAdmin.CompleteOrder
	deleteOrderUC   *ucAdmin.DeleteOrder
	setRoleUC       *ucAdmin.SetRole
	usersUC         *ucAdmin.Users

	sessions *session.Manager
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewAdminHandler(
	loginUC *ucAuth.Login,
	dashboardUC *ucAdmin.Dashboard,
	detailsUC *ucAdmin.Details,
	completeOrderUC *ucAdmin.CompleteOrder,
	deleteOrderUC *ucAdmin.DeleteOrder,
	setRoleUC *ucAdmin.SetRole,
	usersUC *ucAdmin.Users,
	sessions *session.Manager,
	m *metrics.Metrics,
	log *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		loginUC:         loginUC,
		dashboardUC:     dashboardUC,
		detailsUC:       detailsUC,
		completeOrderUC: completeOrderUC,
		deleteOrderUC:   deleteOrderUC,
		setRoleUC:       setRoleUC,
		usersUC:         usersUC,
		sessions:        sessions,
		metrics:         m,
		log:             log,
	}
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func actorID(c *gin.Context) uint {
	return c.GetUint(middleware.ContextUserID)
}

// ======================================================
// AUTH
// ======================================================

func (h *AdminHandler) LoginPage(c *gin.Context) {
	if ident, ok := session.IdentityFrom(c); ok && account.Role(ident.Role) == account.RoleAdmin {
		redirect(c, adminHomePath)
		return
	}

	resp := gin.H{"login_required": true}
	if e := c.Query("error"); e != "" {
		resp["error"] = e
		resp["message"] = messageFor(e)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	user, err := h.loginUC.Execute(c.Request.Context(), ucAuth.LoginInput{
		Email:       req.Email,
		Password:    req.Password,
		RequireRole: account.RoleAdmin,
	})
	h.metrics.Login("admin", err == nil)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_credentials") && !wantsJSON(c) {
			redirect(c, adminLoginPath+"?error=invalid_credentials")
			return
		}
		writeError(c, h.log, err)
		return
	}

	if _, err := h.sessions.Establish(c, session.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}); err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info("admin logged in", slog.Uint64("user_id", uint64(user.ID)))

	if !wantsJSON(c) {
		redirect(c, adminHomePath)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"redirect": adminHomePath,
		"user":     dto.NewUserDTO(user),
	})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c); err != nil {
		h.log.Warn("admin logout: session delete failed", slog.Any("err", err))
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "redirect": adminLoginPath})
		return
	}
	redirect(c, adminLoginPath)
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *AdminHandler) Dashboard(c *gin.Context) {
	out, err := h.dashboardUC.Execute(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) OrderDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	o, err := h.detailsUC.Order(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *AdminHandler) PrivateDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.detailsUC.PrivateRoom(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) EventDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.detailsUC.Event(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// ======================================================
// ORDERS
// ======================================================

func (h *AdminHandler) CompleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	o, err := h.completeOrderUC.Execute(c.Request.Context(), actorID(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if !wantsJSON(c) {
		redirect(c, adminHomePath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
}

func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.deleteOrderUC.Execute(c.Request.Context(), actorID(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}

	if c.Request.Method == http.MethodPost && !wantsJSON(c) {
		redirect(c, adminHomePath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order_id": id})
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.usersUC.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserDTO(&users[i]))
	}
	httpresp.List(c, out)
}

func (h *AdminHandler) Promote(c *gin.Context) {
	h.changeRole(c, account.RoleAdmin)
}

func (h *AdminHandler) Demote(c *gin.Context) {
	h.changeRole(c, account.RoleCustomer)
}

func (h *AdminHandler) changeRole(c *gin.Context, role account.Role) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var (
		u   *models.User
		err error
	)
	if role == account.RoleAdmin {
		u, err = h.setRoleUC.Promote(c.Request.Context(), actorID(c), id)
	} else {
		u, err = h.setRoleUC.Demote(c.Request.Context(), actorID(c), id)
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewUserDTO(u))
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	u, err := h.usersUC.Update(c.Request.Context(), actorID(c), id, ucAdmin.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.NewUserDTO(u))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.usersUC.Delete(c.Request.Context(), actorID(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.NoContent(c)
}
