package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/repository"
	"github.com/skyfare/ticketdesk/internal/service/tickets"
)

type TicketHandler struct {
	service tickets.TicketUseCase
}

func NewTicketHandler(service tickets.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.GET("/country/:code", h.listByCountry)
	router.POST("/:id/lock", h.lock)
	router.POST("/:id/unlock", h.unlock)
}

// RegisterManaged wires the administrative status transition, gated on the
// manager role.
func (h *TicketHandler) RegisterManaged(router *gin.RouterGroup) {
	router.PATCH("/:id/status", h.updateStatus)
}

type ticketResponse struct {
	ID            int64  `json:"id"`
	BatchID       int64  `json:"batch_id"`
	Status        string `json:"status"`
	PriceCents    int64  `json:"price_cents"`
	PassengerName string `json:"passenger_name,omitempty"`
	PassportNo    string `json:"passport_no,omitempty"`
	LockedBy      *int64 `json:"locked_by,omitempty"`
	LockedUntil   string `json:"locked_until,omitempty"`
	BookingID     *int64 `json:"booking_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func (h *TicketHandler) list(c *gin.Context) {
	filter := repository.TicketFilter{
		Status:      c.Query("status"),
		CountryCode: c.Query("country"),
		PackageType: c.Query("package_type"),
	}
	if v := c.Query("batch_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.BatchID = parsed
		}
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}

	ticketList, err := h.service.ListTickets(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": toTicketResponses(ticketList)})
}

func (h *TicketHandler) listByCountry(c *gin.Context) {
	ticketList, err := h.service.ListTickets(c.Request.Context(), repository.TicketFilter{
		CountryCode: c.Param("code"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": toTicketResponses(ticketList)})
}

func (h *TicketHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("invalid id: %w", domain.ErrValidation))
		return
	}
	ticket, err := h.service.GetTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

type lockTicketRequest struct {
	DurationMinutes int `json:"duration_minutes"`
}

func (h *TicketHandler) lock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("invalid id: %w", domain.ErrValidation))
		return
	}
	var req lockTicketRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("invalid body: %w", domain.ErrValidation))
			return
		}
	}
	user := currentUser(c)

	ticket, err := h.service.LockTicket(c.Request.Context(), id, user.ID, time.Duration(req.DurationMinutes)*time.Minute)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) unlock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("invalid id: %w", domain.ErrValidation))
		return
	}
	user := currentUser(c)

	ticket, err := h.service.UnlockTicket(c.Request.Context(), id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

type updateTicketStatusRequest struct {
	Status string `json:"status"`
}

func (h *TicketHandler) updateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("invalid id: %w", domain.ErrValidation))
		return
	}
	var req updateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("invalid body: %w", domain.ErrValidation))
		return
	}

	ticket, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	resp := ticketResponse{
		ID:            t.ID,
		BatchID:       t.BatchID,
		Status:        string(t.Status),
		PriceCents:    t.PriceCents,
		PassengerName: t.PassengerName,
		PassportNo:    t.PassportNo,
		LockedBy:      t.LockedBy,
		BookingID:     t.BookingID,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
	if t.LockedUntil != nil {
		resp.LockedUntil = t.LockedUntil.Format(time.RFC3339)
	}
	return resp
}

func toTicketResponses(ts []domain.Ticket) []ticketResponse {
	resp := make([]ticketResponse, 0, len(ts))
	for i := range ts {
		resp = append(resp, toTicketResponse(&ts[i]))
	}
	return resp
}
