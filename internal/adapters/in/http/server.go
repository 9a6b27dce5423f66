package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shiptrack/internal/core/application/usecases/commands"
	"shiptrack/internal/core/application/usecases/queries"
	"shiptrack/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	reconcileHandler commands.ReconcileShipmentsCommandHandler

	// Query handlers
	getBacklogHandler         queries.GetBacklogQueryHandler
	getShipmentHistoryHandler queries.GetShipmentHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	reconcileHandler commands.ReconcileShipmentsCommandHandler,
	getBacklogHandler queries.GetBacklogQueryHandler,
	getShipmentHistoryHandler queries.GetShipmentHistoryQueryHandler,
) *Server {
	return &Server{
		reconcileHandler:          reconcileHandler,
		getBacklogHandler:         getBacklogHandler,
		getShipmentHistoryHandler: getShipmentHistoryHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.GetHealth)
	e.POST("/api/v1/reconciliation/run", s.RunReconciliation)
	e.GET("/api/v1/shipments/backlog", s.GetBacklog)
	e.GET("/api/v1/shipments/:trackingNumber/history", s.GetShipmentHistory)
}

// Error is the wire shape of an API error response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RunReconciliationRequest is the optional body of a manual reconciliation
// trigger. An empty tracking number list means the full non-terminal backlog.
type RunReconciliationRequest struct {
	TrackingNumbers []string `json:"trackingNumbers"`
}

// GetHealth handles GET /health - liveness probe.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// RunReconciliation handles POST /api/v1/reconciliation/run - triggers a
// reconciliation batch. The dryRun query parameter simulates the run without
// persisting any transition.
func (s *Server) RunReconciliation(ctx echo.Context) error {
	var request RunReconciliationRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	persistIfValid := ctx.QueryParam("dryRun") != "true"

	cmd, err := commands.NewReconcileShipmentsCommand(request.TrackingNumbers, persistIfValid)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid reconciliation request: " + err.Error(),
		})
	}

	outcome, err := s.reconcileHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Reconciliation failed: " + err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, outcome)
}

// GetBacklog handles GET /api/v1/shipments/backlog - lists the non-terminal
// shipments awaiting reconciliation.
func (s *Server) GetBacklog(ctx echo.Context) error {
	query := queries.NewGetBacklogQuery()

	backlog, err := s.getBacklogHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve backlog",
		})
	}

	return ctx.JSON(http.StatusOK, backlog)
}

// GetShipmentHistory handles GET /api/v1/shipments/:trackingNumber/history -
// returns the shipment's current status and full status history.
func (s *Server) GetShipmentHistory(ctx echo.Context) error {
	query, err := queries.NewGetShipmentHistoryQuery(ctx.Param("trackingNumber"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid tracking number: " + err.Error(),
		})
	}

	history, err := s.getShipmentHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Shipment not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve shipment history",
		})
	}

	return ctx.JSON(http.StatusOK, history)
}
