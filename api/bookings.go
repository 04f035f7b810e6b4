package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/service/bookings"
)

type BookingHandler struct {
	service bookings.BookingUseCase
}

func NewBookingHandler(service bookings.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.PATCH("/:id/status", h.confirm)
	router.DELETE("/:id", h.cancel)
}

type createBookingRequest struct {
	TicketID      int64  `json:"ticket_id"`
	PassengerName string `json:"passenger_name"`
	PassportNo    string `json:"passport_no,omitempty"`
	AgentName     string `json:"agent_name,omitempty"`
	AgentPhone    string `json:"agent_phone,omitempty"`
	PriceCents    int64  `json:"price_cents"`
	PaymentType   string `json:"payment_type"`
	Comments      string `json:"comments,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

type bookingResponse struct {
	ID            int64  `json:"id"`
	TicketID      int64  `json:"ticket_id"`
	PassengerName string `json:"passenger_name"`
	PassportNo    string `json:"passport_no,omitempty"`
	AgentName     string `json:"agent_name,omitempty"`
	AgentPhone    string `json:"agent_phone,omitempty"`
	PriceCents    int64  `json:"price_cents"`
	PaymentType   string `json:"payment_type"`
	Comments      string `json:"comments,omitempty"`
	CreatedBy     int64  `json:"created_by"`
	CreatedAt     string `json:"created_at"`
	ConfirmedAt   string `json:"confirmed_at,omitempty"`
	ExpiresAt     string `json:"expires_at"`
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("invalid body: %w", domain.ErrValidation))
		return
	}
	var expiresAt time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			respondError(c, fmt.Errorf("expires_at must be RFC3339: %w", domain.ErrValidation))
			return
		}
		expiresAt = parsed
	}
	user := currentUser(c)

	booking, err := h.service.CreateBooking(c.Request.Context(), bookings.CreateBookingInput{
		TicketID:      req.TicketID,
		PassengerName: req.PassengerName,
		PassportNo:    req.PassportNo,
		AgentName:     req.AgentName,
		AgentPhone:    req.AgentPhone,
		PriceCents:    req.PriceCents,
		PaymentType:   req.PaymentType,
		Comments:      req.Comments,
		ExpiresAt:     expiresAt,
		CreatedBy:     user.ID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("invalid id: %w", domain.ErrValidation))
		return
	}
	booking, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

type confirmBookingRequest struct {
	Status string `json:"status"`
}

func (h *BookingHandler) confirm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("invalid id: %w", domain.ErrValidation))
		return
	}
	var req confirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("invalid body: %w", domain.ErrValidation))
		return
	}
	if req.Status != "confirmed" {
		respondError(c, fmt.Errorf("status must be confirmed: %w", domain.ErrValidation))
		return
	}
	user := currentUser(c)

	booking, err := h.service.ConfirmBooking(c.Request.Context(), id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("invalid id: %w", domain.ErrValidation))
		return
	}
	if err := h.service.CancelBooking(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:            b.ID,
		TicketID:      b.TicketID,
		PassengerName: b.PassengerName,
		PassportNo:    b.PassportNo,
		AgentName:     b.AgentName,
		AgentPhone:    b.AgentPhone,
		PriceCents:    b.PriceCents,
		PaymentType:   string(b.PaymentType),
		Comments:      b.Comments,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		ExpiresAt:     b.ExpiresAt.Format(time.RFC3339),
	}
	if b.ConfirmedAt != nil {
		resp.ConfirmedAt = b.ConfirmedAt.Format(time.RFC3339)
	}
	return resp
}
