package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/repository"
	"github.com/skyfare/ticketdesk/internal/service/batches"
)

type BatchHandler struct {
	service batches.BatchUseCase
}

func NewBatchHandler(service batches.BatchUseCase) *BatchHandler {
	return &BatchHandler{service: service}
}

// Register wires the read routes; the issuing route is registered separately
// behind the manager role gate.
func (h *BatchHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *BatchHandler) RegisterManaged(router *gin.RouterGroup) {
	router.POST("", h.create)
}

type createBatchRequest struct {
	Country          string  `json:"country"`
	AirlineID        int64   `json:"airline_id"`
	FlightDate       string  `json:"flight_date"`
	FlightTime       string  `json:"flight_time"`
	BuyingPriceCents int64   `json:"buying_price_cents"`
	Quantity         int     `json:"quantity"`
	Markup           float64 `json:"markup,omitempty"`
	PackageType      string  `json:"package_type,omitempty"`
	GroupSize        int     `json:"group_size,omitempty"`
	AgentName        string  `json:"agent_name,omitempty"`
	AgentPhone       string  `json:"agent_phone,omitempty"`
}

type batchResponse struct {
	ID               int64  `json:"id"`
	Country          string `json:"country"`
	AirlineID        int64  `json:"airline_id"`
	FlightDate       string `json:"flight_date"`
	FlightTime       string `json:"flight_time"`
	BuyingPriceCents int64  `json:"buying_price_cents"`
	Quantity         int    `json:"quantity"`
	PackageType      string `json:"package_type"`
	GroupSize        int    `json:"group_size,omitempty"`
	AgentName        string `json:"agent_name,omitempty"`
	AgentPhone       string `json:"agent_phone,omitempty"`
	CreatedBy        int64  `json:"created_by"`
	CreatedAt        string `json:"created_at"`
}

type createBatchResponse struct {
	Batch   batchResponse    `json:"batch"`
	Tickets []ticketResponse `json:"tickets"`
}

func (h *BatchHandler) create(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("invalid body: %w", domain.ErrValidation))
		return
	}
	flightDate, err := time.Parse("2006-01-02", req.FlightDate)
	if err != nil {
		respondError(c, fmt.Errorf("flight_date must be YYYY-MM-DD: %w", domain.ErrValidation))
		return
	}
	user := currentUser(c)

	batch, tickets, err := h.service.IssueBatch(c.Request.Context(), batches.IssueBatchInput{
		CountryCode:      req.Country,
		AirlineID:        req.AirlineID,
		FlightDate:       flightDate,
		FlightTime:       req.FlightTime,
		BuyingPriceCents: req.BuyingPriceCents,
		Quantity:         req.Quantity,
		Markup:           req.Markup,
		PackageType:      req.PackageType,
		GroupSize:        req.GroupSize,
		AgentName:        req.AgentName,
		AgentPhone:       req.AgentPhone,
		CreatedBy:        user.ID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := createBatchResponse{Batch: toBatchResponse(batch)}
	for i := range tickets {
		resp.Tickets = append(resp.Tickets, toTicketResponse(&tickets[i]))
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BatchHandler) list(c *gin.Context) {
	filter := repository.BatchFilter{
		CountryCode: c.Query("country"),
		PackageType: c.Query("package_type"),
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

	batchList, err := h.service.ListBatches(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]batchResponse, 0, len(batchList))
	for i := range batchList {
		resp = append(resp, toBatchResponse(&batchList[i]))
	}
	c.JSON(http.StatusOK, gin.H{"batches": resp})
}

func (h *BatchHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("invalid id: %w", domain.ErrValidation))
		return
	}
	batch, err := h.service.GetBatch(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBatchResponse(batch))
}

func toBatchResponse(b *domain.TicketBatch) batchResponse {
	return batchResponse{
		ID:               b.ID,
		Country:          b.CountryCode,
		AirlineID:        b.AirlineID,
		FlightDate:       b.FlightDate.Format("2006-01-02"),
		FlightTime:       b.FlightTime,
		BuyingPriceCents: b.BuyingPriceCents,
		Quantity:         b.Quantity,
		PackageType:      string(b.PackageType),
		GroupSize:        b.GroupSize,
		AgentName:        b.AgentName,
		AgentPhone:       b.AgentPhone,
		CreatedBy:        b.CreatedBy,
		CreatedAt:        b.CreatedAt.Format(time.RFC3339),
	}
}
