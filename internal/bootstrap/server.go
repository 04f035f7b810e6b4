package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/ticketdesk/api"
	"github.com/skyfare/ticketdesk/config"
	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/skyfare/ticketdesk/internal/service/auth"
	"github.com/skyfare/ticketdesk/internal/service/batches"
	"github.com/skyfare/ticketdesk/internal/service/bookings"
	"github.com/skyfare/ticketdesk/internal/service/refdata"
	"github.com/skyfare/ticketdesk/internal/service/tickets"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Services struct {
	Auth     auth.AuthUseCase
	Batches  batches.BatchUseCase
	Tickets  tickets.TicketUseCase
	Bookings bookings.BookingUseCase
	RefData  refdata.RefDataUseCase
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(svc),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter assembles the gin engine: public auth and health routes, then
// the authenticated v1 surface with the manager-gated inventory routes.
func NewRouter(svc Services) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", health)
	r.GET("/ready", ready)
	r.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))))

	authHandler := api.NewAuthHandler(svc.Auth)
	authHandler.Register(r.Group("/auth"))

	batchHandler := api.NewBatchHandler(svc.Batches)
	ticketHandler := api.NewTicketHandler(svc.Tickets)
	bookingHandler := api.NewBookingHandler(svc.Bookings)
	refdataHandler := api.NewRefDataHandler(svc.RefData)

	v1 := r.Group("/api/v1", api.RequireAuth(svc.Auth))
	batchHandler.Register(v1.Group("/batches"))
	ticketHandler.Register(v1.Group("/tickets"))
	bookingHandler.Register(v1.Group("/bookings"))
	refdataHandler.Register(v1)

	managed := v1.Group("", api.RequireRole(domain.UserRoleAdmin, domain.UserRoleManager))
	batchHandler.RegisterManaged(managed.Group("/batches"))
	ticketHandler.RegisterManaged(managed.Group("/tickets"))

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ticketdesk",
		"time":    time.Now().Unix(),
	})
}

func ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
