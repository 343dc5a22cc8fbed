package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/restaurant-app/internal/metrics"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
	"github.com/BruksfildServices01/restaurant-app/internal/session"
	ucBooking "github.com/BruksfildServices01/restaurant-app/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type CustomerHandler struct {
	createOrderUC     *ucBooking.CreateOrder
	bookPrivateRoomUC *ucBooking.BookPrivateRoom
	reserveEventUC    *ucBooking.ReserveEvent
	customerDataUC    *ucBooking.CustomerData

	metrics *metrics.Metrics
	log     *slog.Logger
	debug   bool
}

func NewCustomerHandler(
	createOrderUC *ucBooking.CreateOrder,
	bookPrivateRoomUC *ucBooking.BookPrivateRoom,
	reserveEventUC *ucBooking.ReserveEvent,
	customerDataUC *ucBooking.CustomerData,
	m *metrics.Metrics,
	log *slog.Logger,
	debug bool,
) *CustomerHandler {
	return &CustomerHandler{
		createOrderUC:     createOrderUC,
		bookPrivateRoomUC: bookPrivateRoomUC,
		reserveEventUC:    reserveEventUC,
		customerDataUC:    customerDataUC,
		metrics:           m,
		log:               log,
		debug:             debug,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type DeliveryRequest struct {
	Method          string `json:"method"`
	Address         string `json:"address"`
	SpecialRequests string `json:"specialRequests"`
}

type CreateOrderRequest struct {
	Items    []models.OrderItem `json:"items"`
	Total    float64            `json:"total"`
	Delivery DeliveryRequest    `json:"delivery"`
}

type PrivateRoomRequest struct {
	Name            string `form:"name" json:"name"`
	Email           string `form:"email" json:"email"`
	Date            string `form:"date" json:"date"`
	Time            string `form:"time" json:"time"`
	Message         string `form:"message" json:"message"`
	SpecialRequests string `form:"specialRequests" json:"specialRequests"`
}

type EventRequest struct {
	Name      string  `form:"name" json:"name"`
	Email     string  `form:"email" json:"email"`
	EventType string  `form:"event_type" json:"event_type"`
	Guests    flexInt `form:"guests" json:"guests"`
	Date      string  `form:"date" json:"date"`
	Message   string  `form:"message" json:"message"`
}

// ======================================================
// PAGES
// ======================================================

func (h *CustomerHandler) Panel(c *gin.Context) {
	ident, _ := session.IdentityFrom(c)
	c.JSON(http.StatusOK, gin.H{"email": ident.Email})
}

func (h *CustomerHandler) Data(c *gin.Context) {
	ident, _ := session.IdentityFrom(c)

	data, err := h.customerDataUC.Execute(c.Request.Context(), ident.UserID, ident.Email)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// ======================================================
// CREATE
// ======================================================

func (h *CustomerHandler) CreateOrder(c *gin.Context) {
	ident, _ := session.IdentityFrom(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	o, err := h.createOrderUC.Execute(c.Request.Context(), ident.UserID, ucBooking.CreateOrderInput{
		Items:           req.Items,
		Total:           req.Total,
		Method:          req.Delivery.Method,
		Address:         req.Delivery.Address,
		SpecialRequests: req.Delivery.SpecialRequests,
	})
	if err != nil {
		jsonFailure(c, h.log, err)
		return
	}

	h.metrics.Booking("order")
	c.JSON(http.StatusCreated, gin.H{"success": true, "order_id": o.ID})
}

func (h *CustomerHandler) BookPrivateRoom(c *gin.Context) {
	ident, _ := session.IdentityFrom(c)

	var req PrivateRoomRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	message := req.Message
	if message == "" {
		message = req.SpecialRequests
	}

	b, err := h.bookPrivateRoomUC.Execute(c.Request.Context(), ident.UserID, ucBooking.PrivateRoomInput{
		Name:    req.Name,
		Email:   req.Email,
		Date:    req.Date,
		Time:    req.Time,
		Message: message,
	})
	if err != nil {
		jsonFailure(c, h.log, err)
		return
	}

	h.metrics.Booking("private_room")
	c.JSON(http.StatusCreated, gin.H{"success": true, "booking_id": b.ID})
}

func (h *CustomerHandler) ReserveEvent(c *gin.Context) {
	ident, _ := session.IdentityFrom(c)

	var req EventRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	e, err := h.reserveEventUC.Execute(c.Request.Context(), ident.UserID, ucBooking.EventInput{
		Name:      req.Name,
		Email:     req.Email,
		EventType: req.EventType,
		Guests:    int(req.Guests),
		Date:      req.Date,
		Message:   req.Message,
	})
	if err != nil {
		jsonFailure(c, h.log, err)
		return
	}

	h.metrics.Booking("event")
	c.JSON(http.StatusCreated, gin.H{"success": true, "event_id": e.ID})
}

// ======================================================
// DEBUG
// ======================================================

// DebugData is only routed when APP_DEBUG is on.
func (h *CustomerHandler) DebugData(c *gin.Context) {
	if !h.debug {
		c.Status(http.StatusNotFound)
		return
	}

	sess := session.Current(c)
	ident, _ := session.IdentityFrom(c)

	data, err := h.customerDataUC.Execute(c.Request.Context(), ident.UserID, ident.Email)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": gin.H{
			"id":       sess.ID,
			"identity": sess.Identity,
			"next":     sess.Next,
		},
		"counts": gin.H{
			"orders":        len(data.Orders),
			"private_rooms": len(data.PrivateRooms),
			"events":        len(data.Events),
		},
	})
}
