package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/ticketdesk/internal/service/refdata"
)

type RefDataHandler struct {
	service refdata.RefDataUseCase
}

func NewRefDataHandler(service refdata.RefDataUseCase) *RefDataHandler {
	return &RefDataHandler{service: service}
}

func (h *RefDataHandler) Register(router *gin.RouterGroup) {
	router.GET("/countries", h.countries)
	router.GET("/airlines", h.airlines)
}

type countryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type airlineResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func (h *RefDataHandler) countries(c *gin.Context) {
	countries, err := h.service.ListCountries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]countryResponse, 0, len(countries))
	for _, country := range countries {
		resp = append(resp, countryResponse{Code: country.Code, Name: country.Name})
	}
	c.JSON(http.StatusOK, gin.H{"countries": resp})
}

func (h *RefDataHandler) airlines(c *gin.Context) {
	airlines, err := h.service.ListAirlines(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]airlineResponse, 0, len(airlines))
	for _, airline := range airlines {
		resp = append(resp, airlineResponse{ID: airline.ID, Code: airline.Code, Name: airline.Name})
	}
	c.JSON(http.StatusOK, gin.H{"airlines": resp})
}
