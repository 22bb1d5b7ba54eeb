package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/queuedesk/queue-backend/internal/adapters/primary/validation"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

// QueueHandler handles the operator-side queue flow: claiming the next
// renegotiation customer and closing out a service.
type QueueHandler struct {
	queueService ports.QueueService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewQueueHandler creates a new queue handler.
func NewQueueHandler(
	queueService ports.QueueService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "queue"),
	}
}

// RegisterRoutes sets up the routing for the queue endpoints.
// All of them require authentication.
func (h *QueueHandler) RegisterRoutes(r chi.Router) {
	r.Post("/call-next", h.HandleCallNext)
	r.Post("/end-service", h.HandleEndService)
}

// --- Request DTOs ---

// EndServiceRequest defines the expected JSON body for ending a service.
type EndServiceRequest struct {
	TreatmentID string `json:"treatmentId"`
}

// Validate validates the end service request.
func (r *EndServiceRequest) Validate() error {
	v := validation.NewValidator()
	v.Required("treatmentId", r.TreatmentID).
		UUID("treatmentId", r.TreatmentID)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// --- Handlers ---

// HandleCallNext handles POST /queue/call-next
func (h *QueueHandler) HandleCallNext(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	// No request body: the claim always draws from the whole
	// renegotiation pool, which is sector-less by construction.
	result, err := h.queueService.CallNextForOperator(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("customer called",
		"ticket_id", result.Ticket.ID,
		"user_id", claims.UserID,
		"service_point", result.ServicePoint,
	)

	WriteJSON(w, http.StatusOK, toCallNextResponse(result))
}

// HandleEndService handles POST /queue/end-service
func (h *QueueHandler) HandleEndService(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[EndServiceRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	treatmentID, err := uuid.Parse(req.TreatmentID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.queueService.EndService(r.Context(), treatmentID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("service ended",
		"treatment_id", treatmentID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}
