package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/restaurant-app/internal/config"
	"github.com/BruksfildServices01/restaurant-app/internal/events"
	"github.com/BruksfildServices01/restaurant-app/internal/handlers"
	infraRepo "github.com/BruksfildServices01/restaurant-app/internal/infra/repository"
	"github.com/BruksfildServices01/restaurant-app/internal/metrics"
	"github.com/BruksfildServices01/restaurant-app/internal/middleware"
	"github.com/BruksfildServices01/restaurant-app/internal/notify"
	"github.com/BruksfildServices01/restaurant-app/internal/otp"
	"github.com/BruksfildServices01/restaurant-app/internal/session"
	ucAdmin "github.com/BruksfildServices01/restaurant-app/internal/usecase/admin"
	ucAuth "github.com/BruksfildServices01/restaurant-app/internal/usecase/auth"
	ucBooking "github.com/BruksfildServices01/restaurant-app/internal/usecase/booking"
	"github.com/BruksfildServices01/restaurant-app/internal/validators"
)

// Deps are the long lived pieces cmd/api builds and owns. Nil optional
// fields fall back to in-process implementations.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *slog.Logger

	Sessions  session.Store
	OTPs      otp.Store
	Notifier  notify.Notifier
	Publisher events.Publisher
	Auditor   ucAdmin.Auditor
	Metrics   *metrics.Metrics
}

func (d *Deps) defaults() {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Sessions == nil {
		d.Sessions = session.NewMemoryStore()
	}
	if d.OTPs == nil {
		d.OTPs = otp.NewMemoryStore(d.Config.OTP.TTL)
	}
	if d.Notifier == nil {
		d.Notifier = notify.New(d.Config.Mail, d.Log)
	}
	if d.Publisher == nil {
		d.Publisher = events.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	d.defaults()
	cfg := d.Config
	log := d.Log

	// ======================================================
	// INFRA
	// ======================================================
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)

	sessions := session.NewManager(
		d.Sessions,
		session.NewCodec(cfg.Session.Secret),
		session.Options{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.CookieSecure,
		},
		log,
	)

	checkDomain := validators.AcceptAnyDomain
	if cfg.CheckEmailDomain {
		checkDomain = validators.IsEmailDomainValid
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORSMiddleware(cfg.CORSOrigins...),
		d.Metrics.Middleware(),
		sessions.Middleware(),
	)

	// ======================================================
	// USE CASES: AUTH
	// ======================================================
	registerUC := ucAuth.NewRegister(userRepo, checkDomain)
	loginUC := ucAuth.NewLogin(userRepo)
	requestOTPUC := ucAuth.NewRequestOTP(
		userRepo,
		d.OTPs,
		d.Notifier,
		ucAuth.DeliveryPolicy{FailOpen: cfg.OTP.FailOpen},
		log,
	)
	verifyOTPUC := ucAuth.NewVerifyOTP(userRepo, d.OTPs)

	// ======================================================
	// USE CASES: BOOKINGS
	// ======================================================
	createOrderUC := ucBooking.NewCreateOrder(bookingRepo, d.Publisher, log)
	bookPrivateRoomUC := ucBooking.NewBookPrivateRoom(bookingRepo, d.Publisher, log)
	reserveEventUC := ucBooking.NewReserveEvent(bookingRepo, d.Publisher, log)
	customerDataUC := ucBooking.NewCustomerData(bookingRepo)

	// ======================================================
	// USE CASES: ADMIN
	// ======================================================
	dashboardUC := ucAdmin.NewDashboard(bookingRepo)
	detailsUC := ucAdmin.NewDetails(bookingRepo)
	completeOrderUC := ucAdmin.NewCompleteOrder(bookingRepo, d.Auditor, d.Publisher, log)
	deleteOrderUC := ucAdmin.NewDeleteOrder(bookingRepo, d.Auditor, d.Publisher, log)
	setRoleUC := ucAdmin.NewSetRole(userRepo, d.Auditor)
	usersUC := ucAdmin.NewUsers(userRepo, d.Auditor)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(
		registerUC,
		loginUC,
		requestOTPUC,
		verifyOTPUC,
		sessions,
		d.Metrics,
		log,
	)

	customerHandler := handlers.NewCustomerHandler(
		createOrderUC,
		bookPrivateRoomUC,
		reserveEventUC,
		customerDataUC,
		d.Metrics,
		log,
		cfg.Debug,
	)

	adminHandler := handlers.NewAdminHandler(
		loginUC,
		dashboardUC,
		detailsUC,
		completeOrderUC,
		deleteOrderUC,
		setRoleUC,
		usersUC,
		sessions,
		d.Metrics,
		log,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// DENY POLICIES
	// ======================================================
	loginRequired := func(message string) middleware.Deny {
		return middleware.DenyJSON(http.StatusUnauthorized, gin.H{
			"login_required": true,
			"message":        message,
		})
	}
	unauthorized := func(message string) middleware.Deny {
		return middleware.DenyJSON(http.StatusUnauthorized, gin.H{"error": message})
	}

	customerDeny := middleware.Negotiate(loginRequired("Please login first."), middleware.RedirectToLogin("/otp_login"))
	adminDeny := middleware.Negotiate(loginRequired("Please login first."), middleware.RedirectToLogin("/admin/login"))

	// Deleted accounts lose access even with a live session cookie.
	customerOnly := func(deny middleware.Deny) gin.HandlerFunc {
		return middleware.RequireLogin(deny, userRepo)
	}

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	r.GET("/", func(c *gin.Context) {
		ident, ok := session.IdentityFrom(c)
		resp := gin.H{"service": "restaurant-app", "authenticated": ok}
		if ok {
			resp["email"] = ident.Email
			resp["role"] = ident.Role
		}
		c.JSON(http.StatusOK, resp)
	})

	// ======================================================
	// AUTH
	// ======================================================
	r.POST("/register", authHandler.Register)
	r.GET("/otp_login", authHandler.LoginPage)
	r.POST("/otp_login", authHandler.Login)
	r.POST("/send-otp", authHandler.SendOTP)
	r.POST("/verify-otp", authHandler.VerifyOTP)
	r.GET("/logout", authHandler.Logout)

	// ======================================================
	// CUSTOMER
	// ======================================================
	customer := r.Group("/customer")
	{
		customer.GET("/", customerOnly(customerDeny), customerHandler.Panel)
		customer.GET("/dashboard", customerOnly(customerDeny), customerHandler.Panel)

		if cfg.Debug {
			customer.GET("/debug-data",
				customerOnly(unauthorized("Unauthorized - Please log in first")),
				customerHandler.DebugData,
			)
		}
	}

	// API callers always get JSON, never a redirect.
	customerAPI := r.Group("/customer/api")
	{
		customerAPI.GET("/customer-data",
			customerOnly(unauthorized("Unauthorized")),
			customerHandler.Data,
		)
		customerAPI.POST("/orders",
			customerOnly(loginRequired("Please login to place an order.")),
			customerHandler.CreateOrder,
		)
		customerAPI.POST("/private-room",
			customerOnly(loginRequired("Please login to book a private room.")),
			customerHandler.BookPrivateRoom,
		)
		customerAPI.POST("/event-reservation",
			customerOnly(loginRequired("Please login to reserve an event.")),
			customerHandler.ReserveEvent,
		)
	}

	// ======================================================
	// ADMIN
	// ======================================================
	r.GET("/admin/login", adminHandler.LoginPage)
	r.POST("/admin/login", adminHandler.Login)
	r.GET("/admin/logout", adminHandler.Logout)

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin(adminDeny, userRepo))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)
		admin.GET("/order/:id", adminHandler.OrderDetail)
		admin.GET("/private/:id", adminHandler.PrivateDetail)
		admin.GET("/event/:id", adminHandler.EventDetail)

		admin.POST("/order/:id/complete", adminHandler.CompleteOrder)
		admin.POST("/order/:id/delete", adminHandler.DeleteOrder)
		admin.DELETE("/order/:id", adminHandler.DeleteOrder)

		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users/:id/promote", adminHandler.Promote)
		admin.POST("/users/:id/demote", adminHandler.Demote)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		admin.GET("/audit-logs", auditLogsHandler.List)
	}
}
